package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staybook/internal/domain/shared/money"
	domainuser "staybook/internal/domain/user"
	domainwallet "staybook/internal/domain/wallet"
)

type WalletRepository struct {
	col *mongo.Collection
}

func NewWalletRepository(db *mongo.Database) *WalletRepository {
	return &WalletRepository{col: db.Collection("agg_wallet")}
}

func (r *WalletRepository) ByOwner(ctx context.Context, owner domainuser.ID) (*domainwallet.Wallet, error) {
	var doc walletDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(owner)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainwallet.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *WalletRepository) Save(ctx context.Context, w *domainwallet.Wallet) error {
	doc := newWalletDocument(w)
	filter := bson.M{"_id": doc.ID, "version": w.Version}
	doc.Version = w.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	w.Version = doc.Version
	return nil
}

func (r *WalletRepository) ListPendingWithdrawals(ctx context.Context) ([]*domainwallet.Wallet, error) {
	filter := bson.M{"withdrawals.status": string(domainwallet.WithdrawalPending)}
	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainwallet.Wallet
	for cursor.Next(ctx) {
		var doc walletDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

type withdrawalDocument struct {
	ID          string `bson:"id"`
	Amount      int64  `bson:"amount"`
	Currency    string `bson:"currency"`
	BankAccount string `bson:"bank_account"`
	BankName    string `bson:"bank_name"`
	Status      string `bson:"status"`
	Note        string `bson:"note,omitempty"`
	RequestedAt int64  `bson:"requested_at"`
	ReviewedAt  int64  `bson:"reviewed_at,omitempty"`
}

type walletDocument struct {
	ID          string               `bson:"_id"`
	Amount      int64                `bson:"amount"`
	Currency    string               `bson:"currency"`
	Withdrawals []withdrawalDocument `bson:"withdrawals,omitempty"`
	UpdatedAt   int64                `bson:"updated_at"`
	Version     int64                `bson:"version"`
}

func newWalletDocument(w *domainwallet.Wallet) walletDocument {
	doc := walletDocument{
		ID:        string(w.Owner),
		Amount:    w.Balance.Amount,
		Currency:  w.Balance.Currency,
		UpdatedAt: w.UpdatedAt.UnixMilli(),
		Version:   w.Version,
	}
	for _, wd := range w.Withdrawals {
		entry := withdrawalDocument{
			ID:          wd.ID,
			Amount:      wd.Amount.Amount,
			Currency:    wd.Amount.Currency,
			BankAccount: wd.BankAccount,
			BankName:    wd.BankName,
			Status:      string(wd.Status),
			Note:        wd.Note,
			RequestedAt: wd.RequestedAt.UnixMilli(),
		}
		if !wd.ReviewedAt.IsZero() {
			entry.ReviewedAt = wd.ReviewedAt.UnixMilli()
		}
		doc.Withdrawals = append(doc.Withdrawals, entry)
	}
	return doc
}

func (d walletDocument) toAggregate() *domainwallet.Wallet {
	w := &domainwallet.Wallet{
		Owner:     domainuser.ID(d.ID),
		Balance:   money.Money{Amount: d.Amount, Currency: d.Currency},
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}
	for _, wd := range d.Withdrawals {
		entry := domainwallet.Withdrawal{
			ID:          wd.ID,
			Amount:      money.Money{Amount: wd.Amount, Currency: wd.Currency},
			BankAccount: wd.BankAccount,
			BankName:    wd.BankName,
			Status:      domainwallet.WithdrawalStatus(wd.Status),
			Note:        wd.Note,
			RequestedAt: timestampToTime(wd.RequestedAt),
		}
		if wd.ReviewedAt != 0 {
			entry.ReviewedAt = timestampToTime(wd.ReviewedAt)
		}
		w.Withdrawals = append(w.Withdrawals, entry)
	}
	return w
}

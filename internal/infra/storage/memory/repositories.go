package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainbooking "staybook/internal/domain/booking"
	domainhotel "staybook/internal/domain/hotel"
	domainuser "staybook/internal/domain/user"
	domainwallet "staybook/internal/domain/wallet"
)

// HotelRepository is an in-memory hotel store for tests and single-node runs.
type HotelRepository struct {
	mu    sync.RWMutex
	items map[domainhotel.ID]*domainhotel.Hotel
}

func NewHotelRepository() *HotelRepository {
	return &HotelRepository{items: make(map[domainhotel.ID]*domainhotel.Hotel)}
}

func (r *HotelRepository) ByID(ctx context.Context, id domainhotel.ID) (*domainhotel.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	hotel, ok := r.items[id]
	if !ok {
		return nil, domainhotel.ErrNotFound
	}
	return hotel, nil
}

func (r *HotelRepository) Save(ctx context.Context, h *domainhotel.Hotel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h.Version++
	r.items[h.ID] = h
	return nil
}

func (r *HotelRepository) ListByOwner(ctx context.Context, owner domainuser.ID) ([]*domainhotel.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainhotel.Hotel, 0)
	for _, hotel := range r.items {
		if hotel.Owner == owner {
			matches = append(matches, hotel)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

func (r *HotelRepository) ListPendingApproval(ctx context.Context) ([]*domainhotel.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainhotel.Hotel, 0)
	for _, hotel := range r.items {
		if hotel.Approval == domainhotel.ApprovalPending {
			matches = append(matches, hotel)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.Before(matches[j].CreatedAt)
	})
	return matches, nil
}

func (r *HotelRepository) Search(ctx context.Context, params domainhotel.SearchParams) (domainhotel.SearchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	opts := params.Normalized()
	matches := make([]*domainhotel.Hotel, 0, len(r.items))
	for _, hotel := range r.items {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return domainhotel.SearchResult{}, ctx.Err()
			default:
			}
		}

		if opts.OnlyApproved && !hotel.Visible() {
			continue
		}
		if opts.City != "" && !strings.EqualFold(hotel.Address.City, opts.City) {
			continue
		}
		if opts.Country != "" && !strings.EqualFold(hotel.Address.Country, opts.Country) {
			continue
		}
		if opts.Query != "" && !matchQuery(hotel, opts.Query) {
			continue
		}
		if opts.MinCapacity > 0 && maxCapacity(hotel) < opts.MinCapacity {
			continue
		}
		rate := minRate(hotel)
		if opts.PriceMin > 0 && rate < opts.PriceMin {
			continue
		}
		if opts.PriceMax > 0 && rate > opts.PriceMax {
			continue
		}
		if !tokensMatch(hotel.Amenities, opts.Amenities) {
			continue
		}
		matches = append(matches, hotel)
	}

	sort.Slice(matches, func(i, j int) bool {
		switch opts.Sort {
		case domainhotel.SortByPriceAsc:
			return minRate(matches[i]) < minRate(matches[j])
		case domainhotel.SortByPriceDesc:
			return minRate(matches[i]) > minRate(matches[j])
		case domainhotel.SortByRating:
			if matches[i].Rating == matches[j].Rating {
				return minRate(matches[i]) < minRate(matches[j])
			}
			return matches[i].Rating > matches[j].Rating
		default:
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
	})

	total := len(matches)
	start := opts.Offset
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return domainhotel.SearchResult{Items: matches[start:end], Total: total}, nil
}

func matchQuery(hotel *domainhotel.Hotel, needle string) bool {
	full := strings.ToLower(strings.Join([]string{
		hotel.Name,
		hotel.Description,
		hotel.Address.Line1,
		hotel.Address.City,
		hotel.Address.Country,
	}, " "))
	return strings.Contains(full, needle)
}

func minRate(hotel *domainhotel.Hotel) int64 {
	var rate int64
	for _, room := range hotel.Rooms {
		if rate == 0 || room.NightlyRate.Amount < rate {
			rate = room.NightlyRate.Amount
		}
	}
	return rate
}

func maxCapacity(hotel *domainhotel.Hotel) int {
	capacity := 0
	for _, room := range hotel.Rooms {
		if room.Capacity > capacity {
			capacity = room.Capacity
		}
	}
	return capacity
}

func tokensMatch(values []string, required []string) bool {
	if len(required) == 0 {
		return true
	}
	if len(values) == 0 {
		return false
	}
	index := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(strings.ToLower(value))
		if value == "" {
			continue
		}
		index[value] = struct{}{}
	}
	for _, token := range required {
		if _, ok := index[token]; !ok {
			return false
		}
	}
	return true
}

// BookingRepository stores bookings in memory.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.ID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.ID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	booking, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return booking, nil
}

func (r *BookingRepository) Save(ctx context.Context, booking *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking.Version++
	r.items[booking.ID] = booking
	return nil
}

func (r *BookingRepository) ListByRoom(ctx context.Context, roomID domainhotel.RoomID) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool { return b.RoomID == roomID })
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID domainuser.ID) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool { return b.GuestID == guestID })
}

func (r *BookingRepository) ListByHotel(ctx context.Context, hotelID domainhotel.ID) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool { return b.HotelID == hotelID })
}

func (r *BookingRepository) ListAll(ctx context.Context) ([]*domainbooking.Booking, error) {
	return r.list(func(*domainbooking.Booking) bool { return true })
}

func (r *BookingRepository) list(match func(*domainbooking.Booking) bool) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainbooking.Booking, 0)
	for _, booking := range r.items {
		if match(booking) {
			matches = append(matches, booking)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

// WalletRepository keeps owner wallets in memory.
type WalletRepository struct {
	mu    sync.RWMutex
	items map[domainuser.ID]*domainwallet.Wallet
}

func NewWalletRepository() *WalletRepository {
	return &WalletRepository{items: make(map[domainuser.ID]*domainwallet.Wallet)}
}

func (r *WalletRepository) ByOwner(ctx context.Context, owner domainuser.ID) (*domainwallet.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wallet, ok := r.items[owner]
	if !ok {
		return nil, domainwallet.ErrNotFound
	}
	return wallet, nil
}

func (r *WalletRepository) Save(ctx context.Context, w *domainwallet.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w.Version++
	r.items[w.Owner] = w
	return nil
}

func (r *WalletRepository) ListPendingWithdrawals(ctx context.Context) ([]*domainwallet.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainwallet.Wallet, 0)
	for _, wallet := range r.items {
		for _, wd := range wallet.Withdrawals {
			if wd.Status == domainwallet.WithdrawalPending {
				matches = append(matches, wallet)
				break
			}
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Owner < matches[j].Owner
	})
	return matches, nil
}

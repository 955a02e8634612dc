package usecase

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"cleaning-service/internal/data/entity"
	"cleaning-service/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// memStore backs every repository interface with maps. Reads and writes copy
// so services cannot mutate stored rows without calling an update.
type memStore struct {
	mu sync.Mutex

	clients   map[uuid.UUID]*entity.Client
	members   map[uuid.UUID]*entity.TeamMember
	templates map[uuid.UUID]*entity.ChecklistTemplate
	bookings  map[uuid.UUID]*entity.Booking
	rooms     []*entity.BookingRoom
	invoices  map[uuid.UUID]*entity.Invoice
	earnings  []*entity.JobEarning
	feedback  []*entity.Feedback
	ledgers   map[uuid.UUID]*entity.LoyaltyLedger
	txs       []*entity.LoyaltyTransaction

	bookingUpdates int
	failRoomCreate error
	failRoomLoad   error
}

func newMemStore() *memStore {
	return &memStore{
		clients:   make(map[uuid.UUID]*entity.Client),
		members:   make(map[uuid.UUID]*entity.TeamMember),
		templates: make(map[uuid.UUID]*entity.ChecklistTemplate),
		bookings:  make(map[uuid.UUID]*entity.Booking),
		invoices:  make(map[uuid.UUID]*entity.Invoice),
		ledgers:   make(map[uuid.UUID]*entity.LoyaltyLedger),
	}
}

func (m *memStore) repository() *repository.Repository {
	return &repository.Repository{
		Client:      fakeClients{m},
		TeamMember:  fakeMembers{m},
		Checklist:   fakeChecklists{m},
		Booking:     fakeBookings{m},
		BookingRoom: fakeRooms{m},
		Invoice:     fakeInvoices{m},
		JobEarning:  fakeEarnings{m},
		Feedback:    fakeFeedback{m},
		Loyalty:     fakeLoyalty{m},
	}
}

func cloneBooking(b *entity.Booking) *entity.Booking {
	c := *b
	c.TeamMemberIDs = slices.Clone(b.TeamMemberIDs)
	return &c
}

func cloneRoom(r *entity.BookingRoom) *entity.BookingRoom {
	c := *r
	c.Tasks = slices.Clone(r.Tasks)
	return &c
}

// --- clients ---

type fakeClients struct{ *memStore }

func (f fakeClients) Create(_ context.Context, c *entity.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.clients[c.ID] = &cp
	return nil
}

func (f fakeClients) FindByID(_ context.Context, id uuid.UUID) (*entity.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f fakeClients) AddTotalSpent(_ context.Context, id uuid.UUID, amount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.clients[id]; ok {
		c.TotalSpent = max(c.TotalSpent+amount, 0)
	}
	return nil
}

// --- team members ---

type fakeMembers struct{ *memStore }

func (f fakeMembers) Create(_ context.Context, m *entity.TeamMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *m
	f.members[m.ID] = &cp
	return nil
}

func (f fakeMembers) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*entity.TeamMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.TeamMember
	for _, id := range ids {
		if m, ok := f.members[id]; ok {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

// --- checklist templates ---

type fakeChecklists struct{ *memStore }

func (f fakeChecklists) Create(_ context.Context, t *entity.ChecklistTemplate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templates[t.ID] = t
	return nil
}

func (f fakeChecklists) FindByID(_ context.Context, id uuid.UUID) (*entity.ChecklistTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.templates[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	cp.Rooms = nil
	for _, r := range t.Rooms {
		rc := *r
		rc.Tasks = slices.Clone(r.Tasks)
		cp.Rooms = append(cp.Rooms, &rc)
	}
	return &cp, nil
}

func (f fakeChecklists) ResetRooms(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.templates[id]; ok {
		for _, r := range t.Rooms {
			r.IsCompleted = false
			r.CompletedAt = nil
			r.CompletedBy = nil
		}
	}
	return nil
}

// --- bookings ---

type fakeBookings struct{ *memStore }

func (f fakeBookings) Create(_ context.Context, b *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings[b.ID] = cloneBooking(b)
	return nil
}

func (f fakeBookings) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	return cloneBooking(b), nil
}

func (f fakeBookings) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return f.FindByID(ctx, id)
}

func (f fakeBookings) FindByIDForShare(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return f.FindByID(ctx, id)
}

func (f fakeBookings) matching(filter repository.BookingFilter) []*entity.Booking {
	var out []*entity.Booking
	for _, b := range f.bookings {
		if filter.ClientID != nil && b.ClientID != *filter.ClientID {
			continue
		}
		if filter.TeamMemberID != nil && !b.HasCrewMember(*filter.TeamMemberID) {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, b.Status) {
			continue
		}
		out = append(out, cloneBooking(b))
	}
	slices.SortFunc(out, func(a, b *entity.Booking) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func (f fakeBookings) List(_ context.Context, filter repository.BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.matching(filter)
	if offset >= len(all) {
		return nil, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (f fakeBookings) Count(_ context.Context, filter repository.BookingFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.matching(filter))), nil
}

func (f fakeBookings) Update(_ context.Context, b *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookings[b.ID]; !ok {
		return errors.New("booking not found")
	}
	f.bookings[b.ID] = cloneBooking(b)
	f.bookingUpdates++
	return nil
}

func (f fakeBookings) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookings[id]; !ok {
		return errors.New("booking not found")
	}
	delete(f.bookings, id)
	f.rooms = slices.DeleteFunc(f.rooms, func(r *entity.BookingRoom) bool { return r.BookingID == id })
	return nil
}

// --- snapshot rooms ---

type fakeRooms struct{ *memStore }

func (f fakeRooms) CreateBatch(_ context.Context, rooms []*entity.BookingRoom) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRoomCreate != nil {
		return f.failRoomCreate
	}
	for _, r := range rooms {
		f.rooms = append(f.rooms, cloneRoom(r))
	}
	return nil
}

func (f fakeRooms) FindByBookingID(_ context.Context, bookingID uuid.UUID) (entity.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRoomLoad != nil {
		return nil, f.failRoomLoad
	}
	out := entity.Snapshot{}
	for _, r := range f.rooms {
		if r.BookingID == bookingID {
			out = append(out, cloneRoom(r))
		}
	}
	return out, nil
}

func (f fakeRooms) FindByID(_ context.Context, bookingID, roomID uuid.UUID) (*entity.BookingRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rooms {
		if r.ID == roomID && r.BookingID == bookingID {
			return cloneRoom(r), nil
		}
	}
	return nil, nil
}

func (f fakeRooms) DeleteByBookingID(_ context.Context, bookingID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms = slices.DeleteFunc(f.rooms, func(r *entity.BookingRoom) bool { return r.BookingID == bookingID })
	return nil
}

func (f fakeRooms) MarkCompleted(_ context.Context, bookingID, roomID, by uuid.UUID, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rooms {
		if r.ID == roomID && r.BookingID == bookingID && !r.IsCompleted {
			r.IsCompleted = true
			r.CompletedAt = &at
			r.CompletedBy = &by
			return true, nil
		}
	}
	return false, nil
}

// --- invoices, earnings, feedback ---

type fakeInvoices struct{ *memStore }

func (f fakeInvoices) Create(_ context.Context, inv *entity.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *inv
	f.invoices[inv.ID] = &cp
	return nil
}

func (f fakeInvoices) FindByID(_ context.Context, id uuid.UUID) (*entity.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

type fakeEarnings struct{ *memStore }

func (f fakeEarnings) Create(_ context.Context, e *entity.JobEarning) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *e
	f.earnings = append(f.earnings, &cp)
	return nil
}

func (f fakeEarnings) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*entity.JobEarning, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.JobEarning
	for _, e := range f.earnings {
		if e.BookingID == bookingID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeFeedback struct{ *memStore }

func (f fakeFeedback) Create(_ context.Context, fb *entity.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *fb
	f.feedback = append(f.feedback, &cp)
	return nil
}

func (f fakeFeedback) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*entity.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.feedback) - 1; i >= 0; i-- {
		if f.feedback[i].BookingID == bookingID {
			cp := *f.feedback[i]
			return &cp, nil
		}
	}
	return nil, nil
}

// --- loyalty ---

type fakeLoyalty struct{ *memStore }

func (f fakeLoyalty) FindLedger(_ context.Context, clientID uuid.UUID) (*entity.LoyaltyLedger, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.ledgers[clientID]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (f fakeLoyalty) FindLedgerForUpdate(ctx context.Context, clientID uuid.UUID) (*entity.LoyaltyLedger, error) {
	return f.FindLedger(ctx, clientID)
}

func (f fakeLoyalty) InsertTransaction(_ context.Context, tx *entity.LoyaltyTransaction) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tx.Type == entity.LoyaltyEarned && tx.RelatedBookingID != nil {
		for _, existing := range f.txs {
			if existing.Type == entity.LoyaltyEarned && existing.RelatedBookingID != nil &&
				*existing.RelatedBookingID == *tx.RelatedBookingID {
				return false, nil
			}
		}
	}
	cp := *tx
	f.txs = append(f.txs, &cp)
	return true, nil
}

func (f fakeLoyalty) ledger(clientID uuid.UUID) *entity.LoyaltyLedger {
	l, ok := f.ledgers[clientID]
	if !ok {
		l = &entity.LoyaltyLedger{Base: entity.Base{ID: uuid.New()}, ClientID: clientID}
		f.ledgers[clientID] = l
	}
	return l
}

func (f fakeLoyalty) ApplyDelta(_ context.Context, clientID uuid.UUID, credits, earned, spent int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l := f.ledger(clientID)
	l.CurrentCredits = max(l.CurrentCredits+credits, 0)
	l.TotalEarned = max(l.TotalEarned+earned, 0)
	l.TotalSpent = max(l.TotalSpent+spent, 0)
	return nil
}

func (f fakeLoyalty) SetTotals(_ context.Context, clientID uuid.UUID, earned, spent int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l := f.ledger(clientID)
	l.CurrentCredits = max(earned-spent, 0)
	l.TotalEarned = earned
	l.TotalSpent = spent
	return nil
}

func (f fakeLoyalty) DeleteEarnedForBooking(_ context.Context, bookingID uuid.UUID) ([]*entity.LoyaltyTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var removed []*entity.LoyaltyTransaction
	f.txs = slices.DeleteFunc(f.txs, func(tx *entity.LoyaltyTransaction) bool {
		hit := tx.Type == entity.LoyaltyEarned && tx.RelatedBookingID != nil && *tx.RelatedBookingID == bookingID
		if hit {
			removed = append(removed, tx)
		}
		return hit
	})
	return removed, nil
}

func (f fakeLoyalty) ListTransactions(_ context.Context, clientID uuid.UUID, limit, offset int) ([]*entity.LoyaltyTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.LoyaltyTransaction
	for _, tx := range f.txs {
		if tx.ClientID == clientID {
			cp := *tx
			out = append(out, &cp)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	return out[offset:min(offset+limit, len(out))], nil
}

func (f fakeLoyalty) SumTransactions(_ context.Context, clientID uuid.UUID) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	earned, redeemed := 0, 0
	for _, tx := range f.txs {
		if tx.ClientID != clientID {
			continue
		}
		if tx.Type == entity.LoyaltyEarned {
			earned += tx.Amount
		} else {
			redeemed += tx.Amount
		}
	}
	return earned, redeemed, nil
}

// --- fixtures ---

type recordingSignaler struct {
	mu      sync.Mutex
	intents []InvoiceIntent
	err     error
}

func (r *recordingSignaler) RequestInvoice(_ context.Context, intent InvoiceIntent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intents = append(r.intents, intent)
	return r.err
}

type fixture struct {
	store    *memStore
	repo     *repository.Repository
	invoices *recordingSignaler
	svc      *bookingService
	clock    time.Time

	admin    Actor
	client   *entity.Client
	cleaner1 *entity.TeamMember
	cleaner2 *entity.TeamMember
}

func newFixture() *fixture {
	store := newMemStore()
	f := &fixture{
		store:    store,
		repo:     store.repository(),
		invoices: &recordingSignaler{},
		clock:    time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC),
		admin:    Actor{ID: uuid.New(), Role: RoleAdmin},
	}
	f.svc = newBookingService(f.repo, f.invoices, zap.NewNop())
	f.svc.now = f.tick
	f.svc.checklist.now = f.tick
	f.svc.loyalty.now = f.tick

	f.client = &entity.Client{Base: entity.Base{ID: uuid.New()}, Name: "Jana Nováková"}
	store.clients[f.client.ID] = f.client
	f.cleaner1 = &entity.TeamMember{Base: entity.Base{ID: uuid.New()}, Name: "Petr", IsActive: true}
	f.cleaner2 = &entity.TeamMember{Base: entity.Base{ID: uuid.New()}, Name: "Lucie", IsActive: true}
	store.members[f.cleaner1.ID] = f.cleaner1
	store.members[f.cleaner2.ID] = f.cleaner2
	return f
}

// tick advances the fake clock by a minute per call.
func (f *fixture) tick() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

func (f *fixture) cleaner(m *entity.TeamMember) Actor {
	return Actor{ID: m.ID, Role: RoleCleaner}
}

func (f *fixture) addTemplate(rooms ...string) *entity.ChecklistTemplate {
	t := &entity.ChecklistTemplate{ID: uuid.New(), ClientID: &f.client.ID, Street: "Vinohradská 12"}
	for i, name := range rooms {
		room := &entity.ChecklistRoom{
			Base:        entity.Base{ID: uuid.New()},
			ChecklistID: t.ID,
			RoomName:    name,
			SortOrder:   len(rooms) - i,
		}
		room.Tasks = []*entity.ChecklistTask{
			{Base: entity.Base{ID: uuid.New()}, RoomID: room.ID, TaskText: "Vacuum " + name, SortOrder: 1},
		}
		t.Rooms = append(t.Rooms, room)
	}
	f.store.templates[t.ID] = t
	return t
}

func (f *fixture) addBooking(status entity.BookingStatus, price float64) *entity.Booking {
	p := price
	b := &entity.Booking{
		Base:        entity.Base{ID: uuid.New(), CreatedAt: f.tick()},
		ClientID:    f.client.ID,
		ServiceType: entity.ServiceHomeCleaning,
		Status:      status,
		Details: entity.BookingDetails{
			ServiceType:   entity.ServiceHomeCleaning,
			PriceEstimate: entity.PriceEstimate{Price: &p},
		},
		TeamMemberIDs: []uuid.UUID{},
	}
	f.store.bookings[b.ID] = b
	return b
}

func (f *fixture) booking(id uuid.UUID) *entity.Booking {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return cloneBooking(f.store.bookings[id])
}

func (f *fixture) snapshot(bookingID uuid.UUID) entity.Snapshot {
	s, _ := fakeRooms{f.store}.FindByBookingID(context.Background(), bookingID)
	return s.Sorted()
}

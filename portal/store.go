package portal

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Collection names one of the seven record collections.
type Collection string

const (
	CollectionUsers              Collection = "users"
	CollectionPackages           Collection = "travelPackages"
	CollectionBookings           Collection = "bookings"
	CollectionPayments           Collection = "payments"
	CollectionReviews            Collection = "reviews"
	CollectionInsurance          Collection = "insurance"
	CollectionAssistanceRequests Collection = "assistanceRequests"
)

// Op is the kind of mutation that produced a Change.
type Op string

const (
	OpAdd     Op = "add"
	OpUpdate  Op = "update"
	OpDelete  Op = "delete"
	OpReplace Op = "replace"
)

// Change is published to subscribers after every mutation. Snapshot holds
// a copy of the whole collection after the write, typed as the matching
// slice ([]User, []Booking, ...). ID is zero for OpReplace.
type Change struct {
	Collection Collection
	Op         Op
	ID         int
	Snapshot   any
}

// Store owns the domain collections. It is seeded once from fixtures and
// keeps every mutation in memory only.
type Store struct {
	mu          sync.RWMutex
	users       collection[User]
	packages    collection[TravelPackage]
	bookings    collection[Booking]
	payments    collection[Payment]
	reviews     collection[Review]
	insurance   []Insurance
	assistance  collection[AssistanceRequest]
	now         func() time.Time
	newRef      func() string
	subMu       sync.Mutex
	subscribers []subscriber
	nextSub     int

	// Writes take a ticket under mu; deliveries run in ticket order.
	turn      *sync.Cond
	nextTick  uint64
	deliverAt uint64
}

type subscriber struct {
	id int
	fn func(Change)
}

// StoreOption customises a Store at construction.
type StoreOption func(*Store)

// WithClock replaces time.Now for generated timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithReferenceGenerator replaces the UUID generator used for payment references.
func WithReferenceGenerator(fn func() string) StoreOption {
	return func(s *Store) { s.newRef = fn }
}

// NewStore copies the fixtures into a new store. Later writes never reach
// the caller's slices.
func NewStore(f Fixtures, opts ...StoreOption) *Store {
	s := &Store{
		users: newCollection(f.Users,
			func(u *User) int { return u.UserID },
			func(u *User, id int) { u.UserID = id }),
		packages: newCollection(f.TravelPackages,
			func(p *TravelPackage) int { return p.PackageID },
			func(p *TravelPackage, id int) { p.PackageID = id }),
		bookings: newCollection(f.Bookings,
			func(b *Booking) int { return b.BookingID },
			func(b *Booking, id int) { b.BookingID = id }),
		payments: newCollection(f.Payments,
			func(p *Payment) int { return p.PaymentID },
			func(p *Payment, id int) { p.PaymentID = id }),
		reviews: newCollection(f.Reviews,
			func(r *Review) int { return r.ReviewID },
			func(r *Review, id int) { r.ReviewID = id }),
		assistance: newCollection(f.AssistanceRequests,
			func(r *AssistanceRequest) int { return r.RequestID },
			func(r *AssistanceRequest, id int) { r.RequestID = id }),
		insurance: append([]Insurance{}, f.Insurance...),
		now:       time.Now,
		newRef:    uuid.NewString,
	}
	s.turn = sync.NewCond(&s.subMu)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close drops every subscriber. The collections stay readable.
func (s *Store) Close() error {
	s.subMu.Lock()
	s.subscribers = nil
	s.subMu.Unlock()
	return nil
}

// Subscribe registers fn to receive every Change. Subscribers run on the
// mutating goroutine, after the store lock is released, in the order they
// subscribed. Changes reach subscribers in the order the writes happened,
// even across goroutines. Subscribers may read the store but must not write
// to it. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// ticket reserves the next delivery slot. Call it with mu held.
func (s *Store) ticket() uint64 {
	t := s.nextTick
	s.nextTick++
	return t
}

// publish waits for the slot t and delivers c to every subscriber.
func (s *Store) publish(t uint64, c Change) {
	s.subMu.Lock()
	for s.deliverAt != t {
		s.turn.Wait()
	}
	subs := append([]subscriber(nil), s.subscribers...)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(c)
	}

	s.subMu.Lock()
	s.deliverAt++
	s.turn.Broadcast()
	s.subMu.Unlock()
}

// ---------------------------------------------------------------------------
// Generic mutation helpers
// ---------------------------------------------------------------------------

func addTo[T any](s *Store, c *collection[T], name Collection, rec T, defaults func(*T)) T {
	s.mu.Lock()
	if defaults != nil {
		defaults(&rec)
	}
	created := c.add(rec)
	snap := c.snapshot()
	t := s.ticket()
	s.mu.Unlock()

	s.publish(t, Change{Collection: name, Op: OpAdd, ID: c.id(&created), Snapshot: snap})
	return created
}

func updateIn[T any](s *Store, c *collection[T], name Collection, id int, apply func(*T)) (T, error) {
	s.mu.Lock()
	updated, ok := c.update(id, apply)
	if !ok {
		s.mu.Unlock()
		return updated, fmt.Errorf("update %s %d: %w", name, id, ErrNotFound)
	}
	snap := c.snapshot()
	t := s.ticket()
	s.mu.Unlock()

	s.publish(t, Change{Collection: name, Op: OpUpdate, ID: id, Snapshot: snap})
	return updated, nil
}

func deleteFrom[T any](s *Store, c *collection[T], name Collection, id int) error {
	s.mu.Lock()
	if !c.remove(id) {
		s.mu.Unlock()
		return fmt.Errorf("delete %s %d: %w", name, id, ErrNotFound)
	}
	snap := c.snapshot()
	t := s.ticket()
	s.mu.Unlock()

	s.publish(t, Change{Collection: name, Op: OpDelete, ID: id, Snapshot: snap})
	return nil
}

func readAll[T any](s *Store, c *collection[T]) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return c.snapshot()
}

func readOne[T any](s *Store, c *collection[T], id int) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return c.get(id)
}

func readWhere[T any](s *Store, c *collection[T], keep func(*T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return c.filter(keep)
}

// ------------------ Users ------------------

// AddUser stores u with the next UserID. An empty Approval becomes approved
// and a zero RegistrationDate becomes now.
func (s *Store) AddUser(u User) User {
	return addTo(s, &s.users, CollectionUsers, u, func(u *User) {
		if u.RegistrationDate.IsZero() {
			u.RegistrationDate = s.now().UTC()
		}
		if u.Approval == "" {
			u.Approval = ApprovalApproved
		}
	})
}

func (s *Store) UpdateUser(id int, p UserPatch) (User, error) {
	return updateIn(s, &s.users, CollectionUsers, id, p.apply)
}

func (s *Store) DeleteUser(id int) error { return deleteFrom(s, &s.users, CollectionUsers, id) }

func (s *Store) Users() []User                 { return readAll(s, &s.users) }
func (s *Store) UserByID(id int) (User, bool) { return readOne(s, &s.users, id) }

// SyncUsers replaces the whole user collection with users.
func (s *Store) SyncUsers(users []User) {
	s.mu.Lock()
	s.users.replace(users)
	snap := s.users.snapshot()
	t := s.ticket()
	s.mu.Unlock()

	s.publish(t, Change{Collection: CollectionUsers, Op: OpReplace, Snapshot: snap})
}

// ------------------ Travel packages ------------------

func (s *Store) AddPackage(p TravelPackage) TravelPackage {
	return addTo(s, &s.packages, CollectionPackages, p, nil)
}

func (s *Store) UpdatePackage(id int, p PackagePatch) (TravelPackage, error) {
	return updateIn(s, &s.packages, CollectionPackages, id, p.apply)
}

func (s *Store) DeletePackage(id int) error {
	return deleteFrom(s, &s.packages, CollectionPackages, id)
}

func (s *Store) Packages() []TravelPackage { return readAll(s, &s.packages) }

func (s *Store) PackageByID(id int) (TravelPackage, bool) { return readOne(s, &s.packages, id) }

func (s *Store) PackagesByAgent(agentID int) []TravelPackage {
	return readWhere(s, &s.packages, func(p *TravelPackage) bool { return p.AgentID == agentID })
}

// ------------------ Bookings ------------------

// AddBooking stores b with the next BookingID. An empty Status becomes pending.
func (s *Store) AddBooking(b Booking) Booking {
	return addTo(s, &s.bookings, CollectionBookings, b, func(b *Booking) {
		if b.Status == "" {
			b.Status = BookingPending
		}
	})
}

func (s *Store) UpdateBooking(id int, p BookingPatch) (Booking, error) {
	return updateIn(s, &s.bookings, CollectionBookings, id, p.apply)
}

func (s *Store) DeleteBooking(id int) error {
	return deleteFrom(s, &s.bookings, CollectionBookings, id)
}

func (s *Store) Bookings() []Booking                 { return readAll(s, &s.bookings) }
func (s *Store) BookingByID(id int) (Booking, bool) { return readOne(s, &s.bookings, id) }

func (s *Store) BookingsByUser(userID int) []Booking {
	return readWhere(s, &s.bookings, func(b *Booking) bool { return b.UserID == userID })
}

// ------------------ Payments ------------------

// AddPayment stores p with the next PaymentID. An empty Status becomes
// pending and an empty Reference gets a fresh UUID.
func (s *Store) AddPayment(p Payment) Payment {
	return addTo(s, &s.payments, CollectionPayments, p, func(p *Payment) {
		if p.Status == "" {
			p.Status = PaymentPending
		}
		if p.Reference == "" {
			p.Reference = s.newRef()
		}
	})
}

func (s *Store) UpdatePayment(id int, p PaymentPatch) (Payment, error) {
	return updateIn(s, &s.payments, CollectionPayments, id, p.apply)
}

func (s *Store) Payments() []Payment                 { return readAll(s, &s.payments) }
func (s *Store) PaymentByID(id int) (Payment, bool) { return readOne(s, &s.payments, id) }

func (s *Store) PaymentsByUser(userID int) []Payment {
	return readWhere(s, &s.payments, func(p *Payment) bool { return p.UserID == userID })
}

// ------------------ Reviews ------------------

func (s *Store) AddReview(r Review) Review {
	return addTo(s, &s.reviews, CollectionReviews, r, func(r *Review) {
		if r.Timestamp.IsZero() {
			r.Timestamp = s.now().UTC()
		}
	})
}

func (s *Store) UpdateReview(id int, p ReviewPatch) (Review, error) {
	return updateIn(s, &s.reviews, CollectionReviews, id, p.apply)
}

func (s *Store) DeleteReview(id int) error { return deleteFrom(s, &s.reviews, CollectionReviews, id) }

func (s *Store) Reviews() []Review                 { return readAll(s, &s.reviews) }
func (s *Store) ReviewByID(id int) (Review, bool) { return readOne(s, &s.reviews, id) }

func (s *Store) ReviewsByPackage(packageID int) []Review {
	return readWhere(s, &s.reviews, func(r *Review) bool { return r.PackageID == packageID })
}

// ------------------ Insurance ------------------

// Insurance returns the catalog. It never changes after construction.
func (s *Store) Insurance() []Insurance {
	return append([]Insurance{}, s.insurance...)
}

func (s *Store) InsuranceByID(id int) (Insurance, bool) {
	for _, ins := range s.insurance {
		if ins.ID == id {
			return ins, true
		}
	}
	return Insurance{}, false
}

// ------------------ Assistance requests ------------------

// AddAssistanceRequest stores r with the next RequestID. An empty Status
// becomes pending and a zero Timestamp becomes now.
func (s *Store) AddAssistanceRequest(r AssistanceRequest) AssistanceRequest {
	return addTo(s, &s.assistance, CollectionAssistanceRequests, r, func(r *AssistanceRequest) {
		if r.Status == "" {
			r.Status = RequestPending
		}
		if r.Timestamp.IsZero() {
			r.Timestamp = s.now().UTC()
		}
	})
}

func (s *Store) UpdateAssistanceRequest(id int, p AssistancePatch) (AssistanceRequest, error) {
	return updateIn(s, &s.assistance, CollectionAssistanceRequests, id, p.apply)
}

func (s *Store) DeleteAssistanceRequest(id int) error {
	return deleteFrom(s, &s.assistance, CollectionAssistanceRequests, id)
}

func (s *Store) AssistanceRequests() []AssistanceRequest { return readAll(s, &s.assistance) }

func (s *Store) AssistanceRequestByID(id int) (AssistanceRequest, bool) {
	return readOne(s, &s.assistance, id)
}

func (s *Store) AssistanceRequestsByUser(userID int) []AssistanceRequest {
	return readWhere(s, &s.assistance, func(r *AssistanceRequest) bool { return r.UserID == userID })
}

package portal

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func emptyStore(opts ...StoreOption) *Store {
	opts = append([]StoreOption{WithClock(fixedClock)}, opts...)
	return NewStore(Fixtures{}, opts...)
}

func TestAddAssignsNextID(t *testing.T) {
	s := emptyStore()

	first := s.AddReview(Review{UserID: 1, PackageID: 1, Rating: 4})
	assert.Equal(t, 1, first.ReviewID, "empty collection starts at 1")

	s = NewStore(Fixtures{Reviews: []Review{{ReviewID: 3}, {ReviewID: 7}, {ReviewID: 5}}})
	next := s.AddReview(Review{Rating: 2})
	assert.Equal(t, 8, next.ReviewID, "next id is max+1, not len+1")
}

func TestAddThenGetReturnsInputWithDefaults(t *testing.T) {
	s := emptyStore()

	u := s.AddUser(User{Name: "Ann", Email: "ann@x.com", Password: "pw", Role: RoleCustomer})
	got, ok := s.UserByID(u.UserID)
	require.True(t, ok)
	assert.Equal(t, User{
		UserID:           1,
		Name:             "Ann",
		Email:            "ann@x.com",
		Password:         "pw",
		Role:             RoleCustomer,
		Approval:         ApprovalApproved,
		RegistrationDate: testNow,
	}, got)

	req := s.AddAssistanceRequest(AssistanceRequest{UserID: 1, IssueDescription: "help", Priority: "high"})
	assert.Equal(t, RequestPending, req.Status)
	assert.Nil(t, req.ResolutionTime)
	assert.Equal(t, testNow, req.Timestamp)

	r := s.AddReview(Review{Rating: 5})
	assert.Equal(t, testNow, r.Timestamp)
}

func TestCallerFieldsWinOverDefaults(t *testing.T) {
	s := emptyStore()
	when := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)

	u := s.AddUser(User{Name: "Agent", Approval: ApprovalPending, RegistrationDate: when})
	assert.Equal(t, ApprovalPending, u.Approval)
	assert.Equal(t, when, u.RegistrationDate)

	b := s.AddBooking(Booking{Status: BookingConfirmed})
	assert.Equal(t, BookingConfirmed, b.Status)

	req := s.AddAssistanceRequest(AssistanceRequest{Status: RequestInProgress, Timestamp: when})
	assert.Equal(t, RequestInProgress, req.Status)
	assert.Equal(t, when, req.Timestamp)
}

func TestAddBookingScenario(t *testing.T) {
	s := emptyStore()

	b := s.AddBooking(Booking{
		UserID:    1,
		PackageID: 5,
		StartDate: "2024-01-01",
		EndDate:   "2024-01-05",
		Status:    BookingPending,
		PaymentID: nil,
	})
	assert.Equal(t, 1, b.BookingID)

	mine := s.BookingsByUser(1)
	require.Len(t, mine, 1)
	assert.Equal(t, b, mine[0])
}

func TestUpdateChangesOnlyPatchedField(t *testing.T) {
	s := NewStore(Fixtures{Bookings: []Booking{
		{BookingID: 1, UserID: 1, PackageID: 1, StartDate: "2024-01-01", EndDate: "2024-01-05", Status: BookingPending},
		{BookingID: 2, UserID: 2, PackageID: 2, StartDate: "2024-02-01", EndDate: "2024-02-05", Status: BookingPending},
	}})
	before := s.Bookings()

	updated, err := s.UpdateBooking(1, BookingPatch{Status: Ptr(BookingConfirmed)})
	require.NoError(t, err)

	want := before[0]
	want.Status = BookingConfirmed
	assert.Equal(t, want, updated)

	after := s.Bookings()
	require.Len(t, after, 2)
	assert.Equal(t, want, after[0])
	assert.Equal(t, before[1], after[1], "other records untouched")
}

func TestUpdateMissingIDLeavesCollectionUnchanged(t *testing.T) {
	s := NewStore(Fixtures{Bookings: []Booking{{BookingID: 1, Status: BookingPending}}})
	before := s.Bookings()

	var changes int
	s.Subscribe(func(Change) { changes++ })

	_, err := s.UpdateBooking(999, BookingPatch{Status: Ptr(BookingConfirmed)})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, before, s.Bookings())
	assert.Zero(t, changes, "nothing published for a miss")
}

func TestUpdateCannotChangeIdentity(t *testing.T) {
	s := NewStore(Fixtures{Payments: []Payment{{PaymentID: 4, Amount: 10}}})
	p, err := s.UpdatePayment(4, PaymentPatch{Amount: Ptr(25.0), Status: Ptr(PaymentCompleted)})
	require.NoError(t, err)
	assert.Equal(t, 4, p.PaymentID)
	assert.Equal(t, 25.0, p.Amount)
	assert.Equal(t, PaymentCompleted, p.Status)
}

func TestDelete(t *testing.T) {
	s := NewStore(Fixtures{TravelPackages: []TravelPackage{
		{PackageID: 1, Title: "A"}, {PackageID: 2, Title: "B"}, {PackageID: 3, Title: "C"},
	}})

	require.NoError(t, s.DeletePackage(2))
	pkgs := s.Packages()
	require.Len(t, pkgs, 2)
	assert.Equal(t, []int{1, 3}, []int{pkgs[0].PackageID, pkgs[1].PackageID}, "insertion order kept")

	assert.ErrorIs(t, s.DeletePackage(2), ErrNotFound)
	assert.Len(t, s.Packages(), 2)
}

func TestDeleteEveryDeletableCollection(t *testing.T) {
	s := NewStore(Fixtures{
		Users:              []User{{UserID: 1}},
		TravelPackages:     []TravelPackage{{PackageID: 1}},
		Bookings:           []Booking{{BookingID: 1}},
		Reviews:            []Review{{ReviewID: 1}},
		AssistanceRequests: []AssistanceRequest{{RequestID: 1}},
	})

	require.NoError(t, s.DeleteUser(1))
	require.NoError(t, s.DeletePackage(1))
	require.NoError(t, s.DeleteBooking(1))
	require.NoError(t, s.DeleteReview(1))
	require.NoError(t, s.DeleteAssistanceRequest(1))

	assert.Empty(t, s.Users())
	assert.Empty(t, s.Packages())
	assert.Empty(t, s.Bookings())
	assert.Empty(t, s.Reviews())
	assert.Empty(t, s.AssistanceRequests())
}

func TestFiltersAndLookups(t *testing.T) {
	fx, err := DefaultFixtures()
	require.NoError(t, err)
	s := NewStore(fx)

	assert.Len(t, s.PackagesByAgent(2), 2)
	assert.Len(t, s.PackagesByAgent(99), 0)
	assert.Len(t, s.BookingsByUser(4), 1)
	assert.Len(t, s.PaymentsByUser(4), 1)
	assert.Len(t, s.ReviewsByPackage(1), 1)
	assert.Len(t, s.AssistanceRequestsByUser(5), 1)

	_, ok := s.PackageByID(42)
	assert.False(t, ok)
	ins, ok := s.InsuranceByID(2)
	require.True(t, ok)
	assert.Equal(t, 99.0, ins.Price)
}

func TestStoreDoesNotShareSlices(t *testing.T) {
	seed := []User{{UserID: 1, Name: "Original"}}
	s := NewStore(Fixtures{Users: seed})

	seed[0].Name = "Changed in fixture"
	users := s.Users()
	assert.Equal(t, "Original", users[0].Name)

	users[0].Name = "Changed in snapshot"
	got, _ := s.UserByID(1)
	assert.Equal(t, "Original", got.Name)
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	s := emptyStore()

	var got []Change
	unsubscribe := s.Subscribe(func(c Change) { got = append(got, c) })

	u := s.AddUser(User{Name: "Ann"})
	_, err := s.UpdateUser(u.UserID, UserPatch{Name: Ptr("Anna")})
	require.NoError(t, err)
	require.NoError(t, s.DeleteUser(u.UserID))

	require.Len(t, got, 3)
	assert.Equal(t, Change{Collection: CollectionUsers, Op: OpAdd, ID: 1, Snapshot: []User{u}}, got[0])
	assert.Equal(t, OpUpdate, got[1].Op)
	assert.Equal(t, "Anna", got[1].Snapshot.([]User)[0].Name)
	assert.Equal(t, OpDelete, got[2].Op)
	assert.Empty(t, got[2].Snapshot.([]User))

	unsubscribe()
	s.AddUser(User{Name: "Ben"})
	assert.Len(t, got, 3, "no delivery after unsubscribe")
}

func TestSubscribersRunInOrder(t *testing.T) {
	s := emptyStore()
	var order []string
	s.Subscribe(func(Change) { order = append(order, "first") })
	s.Subscribe(func(Change) { order = append(order, "second") })

	s.AddBooking(Booking{UserID: 1})
	assert.Equal(t, []string{"first", "second"}, order)

	require.NoError(t, s.Close())
	s.AddBooking(Booking{UserID: 1})
	assert.Len(t, order, 2, "close drops subscribers")
}

func TestSubscriberMayReadStore(t *testing.T) {
	s := emptyStore()
	var seen int
	s.Subscribe(func(Change) { seen = len(s.Bookings()) })

	s.AddBooking(Booking{UserID: 1})
	assert.Equal(t, 1, seen)
}

func TestSyncUsersReplacesCollection(t *testing.T) {
	s := NewStore(Fixtures{Users: []User{{UserID: 1}, {UserID: 2}}})

	var last Change
	s.Subscribe(func(c Change) { last = c })

	s.SyncUsers([]User{{UserID: 9, Name: "Only"}})
	users := s.Users()
	require.Len(t, users, 1)
	assert.Equal(t, 9, users[0].UserID)
	assert.Equal(t, OpReplace, last.Op)

	assert.Equal(t, 10, s.AddUser(User{}).UserID)
}

func TestPaymentReferenceDefault(t *testing.T) {
	s := emptyStore(WithReferenceGenerator(func() string { return "ref-1" }))

	p := s.AddPayment(Payment{UserID: 1, BookingID: 1, Amount: 10})
	assert.Equal(t, "ref-1", p.Reference)
	assert.Equal(t, PaymentPending, p.Status)

	p = s.AddPayment(Payment{Reference: "given"})
	assert.Equal(t, "given", p.Reference)

	s = NewStore(Fixtures{})
	assert.Len(t, s.AddPayment(Payment{}).Reference, 36, "uuid by default")
}

func TestConcurrentAddsGetDistinctIDs(t *testing.T) {
	s := emptyStore()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddAssistanceRequest(AssistanceRequest{UserID: 1})
		}()
	}
	wg.Wait()

	seen := make(map[int]bool)
	for _, r := range s.AssistanceRequests() {
		assert.False(t, seen[r.RequestID], "duplicate id %d", r.RequestID)
		seen[r.RequestID] = true
	}
	assert.Len(t, seen, n)
}

func TestDanglingReferences(t *testing.T) {
	fx, err := LoadFixtures("testdata/dangling.json")
	require.NoError(t, err)

	got := NewStore(fx).DanglingReferences()
	assert.Equal(t, []DanglingRef{
		{Collection: CollectionBookings, ID: 1, Field: "PackageID", Target: CollectionPackages, TargetID: 9},
		{Collection: CollectionBookings, ID: 1, Field: "PaymentID", Target: CollectionPayments, TargetID: 4},
		{Collection: CollectionAssistanceRequests, ID: 1, Field: "UserID", Target: CollectionUsers, TargetID: 7},
	}, got)

	fx, err = DefaultFixtures()
	require.NoError(t, err)
	assert.Empty(t, NewStore(fx).DanglingReferences())
}

func TestConcurrentWritesPublishInOrder(t *testing.T) {
	s := emptyStore()

	var sizes []int
	s.Subscribe(func(c Change) {
		sizes = append(sizes, len(c.Snapshot.([]Booking)))
	})

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddBooking(Booking{UserID: 1})
		}()
	}
	wg.Wait()

	require.Len(t, sizes, n)
	for i, size := range sizes {
		assert.Equal(t, i+1, size, "change %d delivered out of order", i)
	}
}

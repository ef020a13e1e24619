package portal

import "fmt"

// DanglingRef is a reference field whose target record does not exist.
type DanglingRef struct {
	Collection Collection // collection holding the reference
	ID         int        // identity of the record holding the reference
	Field      string
	Target     Collection
	TargetID   int
}

func (d DanglingRef) String() string {
	return fmt.Sprintf("%s %d: %s=%d has no match in %s", d.Collection, d.ID, d.Field, d.TargetID, d.Target)
}

// DanglingReferences checks every reference field against its target
// collection. Nothing prevents such references on write, so readers that
// care can call this to find them.
func (s *Store) DanglingReferences() []DanglingRef {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []DanglingRef
	check := func(from Collection, id int, field string, to Collection, targetID int, exists func(int) bool) {
		if !exists(targetID) {
			out = append(out, DanglingRef{Collection: from, ID: id, Field: field, Target: to, TargetID: targetID})
		}
	}
	hasUser := func(id int) bool { return s.users.index(id) >= 0 }
	hasPackage := func(id int) bool { return s.packages.index(id) >= 0 }
	hasBooking := func(id int) bool { return s.bookings.index(id) >= 0 }
	hasPayment := func(id int) bool { return s.payments.index(id) >= 0 }

	for _, p := range s.packages.items {
		check(CollectionPackages, p.PackageID, "AgentID", CollectionUsers, p.AgentID, hasUser)
	}
	for _, b := range s.bookings.items {
		check(CollectionBookings, b.BookingID, "UserID", CollectionUsers, b.UserID, hasUser)
		check(CollectionBookings, b.BookingID, "PackageID", CollectionPackages, b.PackageID, hasPackage)
		if b.PaymentID != nil {
			check(CollectionBookings, b.BookingID, "PaymentID", CollectionPayments, *b.PaymentID, hasPayment)
		}
	}
	for _, p := range s.payments.items {
		check(CollectionPayments, p.PaymentID, "UserID", CollectionUsers, p.UserID, hasUser)
		check(CollectionPayments, p.PaymentID, "BookingID", CollectionBookings, p.BookingID, hasBooking)
	}
	for _, r := range s.reviews.items {
		check(CollectionReviews, r.ReviewID, "UserID", CollectionUsers, r.UserID, hasUser)
		check(CollectionReviews, r.ReviewID, "PackageID", CollectionPackages, r.PackageID, hasPackage)
	}
	for _, r := range s.assistance.items {
		check(CollectionAssistanceRequests, r.RequestID, "UserID", CollectionUsers, r.UserID, hasUser)
	}
	return out
}

package portal

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// minCancelDays is how many whole days must remain before a booking's start
// for the customer to cancel it.
const minCancelDays = 7

// Portal ties the durable session, the in-memory store and metrics
// together and applies the portal's role rules on top of raw CRUD.
type Portal struct {
	db          *Database
	store       *Store
	session     *Session
	metrics     *Metrics
	log         *slog.Logger
	unsubscribe func()
}

// Open loads fixtures and the database named by cfg and builds a Portal.
func Open(cfg Config, logger *slog.Logger) (*Portal, error) {
	fx, err := LoadFixtures(cfg.FixturesPath)
	if err != nil {
		return nil, err
	}
	db, err := NewDatabase(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	p, err := New(db, fx, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// New builds a Portal over an open database. The Portal takes ownership of
// db and closes it in Close.
func New(db *Database, fx Fixtures, logger *slog.Logger, opts ...StoreOption) (*Portal, error) {
	if logger == nil {
		logger = slog.Default()
	}
	session, err := NewSession(db, logger)
	if err != nil {
		return nil, err
	}
	store := NewStore(fx, opts...)
	metrics := NewMetrics()
	p := &Portal{
		db:      db,
		store:   store,
		session: session,
		metrics: metrics,
		log:     logger,
	}
	p.unsubscribe = store.Subscribe(metrics.Observe)
	return p, nil
}

// Close releases the store subscribers and the database.
func (p *Portal) Close() error {
	p.unsubscribe()
	p.store.Close()
	return p.db.Close()
}

func (p *Portal) Store() *Store     { return p.store }
func (p *Portal) Session() *Session { return p.session }
func (p *Portal) Metrics() *Metrics { return p.metrics }
func (p *Portal) now() time.Time    { return p.store.now() }

// ------------------ Session ------------------

// Login checks the credentials against the store's current user list.
func (p *Portal) Login(email, password string) (User, error) {
	u, err := p.session.Login(email, password, p.store.Users())
	p.metrics.LoginAttempt(err == nil)
	return u, err
}

func (p *Portal) Logout() error { return p.session.Logout() }

// CurrentUser returns the logged-in user as the store knows it now. A
// session whose user has since been deleted yields ErrNotFound.
func (p *Portal) CurrentUser() (User, error) {
	snap, ok := p.session.Current()
	if !ok {
		return User{}, ErrNotAuthenticated
	}
	u, ok := p.session.Resolve(p.store)
	if !ok {
		p.log.Warn("session user no longer exists", "user_id", snap.UserID)
		return User{}, fmt.Errorf("session user %d: %w", snap.UserID, ErrNotFound)
	}
	return u, nil
}

func (p *Portal) requireRole(roles ...Role) (User, error) {
	u, err := p.CurrentUser()
	if err != nil {
		return User{}, err
	}
	for _, r := range roles {
		if u.Role == r {
			return u, nil
		}
	}
	return User{}, fmt.Errorf("%s account: %w", u.Role, ErrForbidden)
}

// ------------------ Accounts ------------------

type RegisterInput struct {
	Name          string
	Email         string
	Password      string
	ContactNumber string
	Role          Role
}

// Register signs up a customer or an agent. Agents wait for admin
// approval; customers are approved at once. The password is stored as a
// bcrypt hash.
func (p *Portal) Register(in RegisterInput) (User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.ContactNumber = strings.TrimSpace(in.ContactNumber)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return User{}, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}
	if in.Role == "" {
		in.Role = RoleCustomer
	}
	approval := ApprovalApproved
	switch in.Role {
	case RoleCustomer:
	case RoleAgent:
		approval = ApprovalPending
	default:
		return User{}, fmt.Errorf("%w: cannot register as %q", ErrInvalidInput, in.Role)
	}
	if p.emailTaken(in.Email, 0) {
		return User{}, fmt.Errorf("register %s: %w", in.Email, ErrEmailTaken)
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}
	u := p.store.AddUser(User{
		Name:          in.Name,
		Email:         in.Email,
		Password:      hash,
		Role:          in.Role,
		ContactNumber: in.ContactNumber,
		Approval:      approval,
	})
	p.log.Info("user registered", "user_id", u.UserID, "role", u.Role)
	return u, nil
}

// emailTaken ignores case and skips the user with identity except.
func (p *Portal) emailTaken(email string, except int) bool {
	for _, u := range p.store.Users() {
		if u.UserID != except && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

type ProfileInput struct {
	Name            string
	Email           string
	ContactNumber   string
	Password        string // empty keeps the current password
	ConfirmPassword string
}

// UpdateProfile edits the logged-in user's own record and refreshes the
// session snapshot.
func (p *Portal) UpdateProfile(in ProfileInput) (User, error) {
	cur, err := p.CurrentUser()
	if err != nil {
		return User{}, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" {
		return User{}, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	if in.Password != in.ConfirmPassword {
		return User{}, fmt.Errorf("%w: passwords do not match", ErrInvalidInput)
	}
	if p.emailTaken(in.Email, cur.UserID) {
		return User{}, fmt.Errorf("update profile: %w", ErrEmailTaken)
	}

	patch := UserPatch{
		Name:          &in.Name,
		Email:         &in.Email,
		ContactNumber: Ptr(strings.TrimSpace(in.ContactNumber)),
	}
	if in.Password != "" {
		hash, err := HashPassword(in.Password)
		if err != nil {
			return User{}, err
		}
		patch.Password = &hash
	}
	updated, err := p.store.UpdateUser(cur.UserID, patch)
	if err != nil {
		return User{}, err
	}
	if err := p.session.UpdateUser(updated); err != nil {
		return User{}, err
	}
	return updated, nil
}

// ------------------ Customer ------------------

// BookPackage creates a pending booking for the logged-in customer.
func (p *Portal) BookPackage(packageID int, start, end string) (Booking, error) {
	u, err := p.requireRole(RoleCustomer)
	if err != nil {
		return Booking{}, err
	}
	if _, ok := p.store.PackageByID(packageID); !ok {
		return Booking{}, fmt.Errorf("package %d: %w", packageID, ErrNotFound)
	}
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return Booking{}, fmt.Errorf("%w: start date %q is not YYYY-MM-DD", ErrInvalidInput, start)
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return Booking{}, fmt.Errorf("%w: end date %q is not YYYY-MM-DD", ErrInvalidInput, end)
	}
	if endDate.Before(startDate) {
		return Booking{}, fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}

	b := p.store.AddBooking(Booking{
		UserID:    u.UserID,
		PackageID: packageID,
		StartDate: start,
		EndDate:   end,
		Status:    BookingPending,
	})
	p.log.Info("booking created", "booking_id", b.BookingID, "user_id", u.UserID, "package_id", packageID)
	return b, nil
}

// PayBooking charges the package price plus the optional insurance
// (insuranceID 0 means none) and links the payment to the booking.
func (p *Portal) PayBooking(bookingID, insuranceID int, card CardDetails) (Payment, error) {
	u, err := p.requireRole(RoleCustomer)
	if err != nil {
		return Payment{}, err
	}
	b, ok := p.store.BookingByID(bookingID)
	if !ok || b.UserID != u.UserID {
		return Payment{}, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
	}
	if b.PaymentID != nil {
		return Payment{}, fmt.Errorf("%w: booking %d is already paid", ErrInvalidInput, bookingID)
	}
	if b.Status == BookingCancelled {
		return Payment{}, fmt.Errorf("%w: booking %d is cancelled", ErrInvalidInput, bookingID)
	}
	pkg, ok := p.store.PackageByID(b.PackageID)
	if !ok {
		return Payment{}, fmt.Errorf("package %d of booking %d: %w", b.PackageID, bookingID, ErrNotFound)
	}
	amount := pkg.Price
	if insuranceID != 0 {
		ins, ok := p.store.InsuranceByID(insuranceID)
		if !ok {
			return Payment{}, fmt.Errorf("insurance %d: %w", insuranceID, ErrNotFound)
		}
		amount += ins.Price
	}
	if err := card.Validate(p.now()); err != nil {
		return Payment{}, err
	}

	pay := p.store.AddPayment(Payment{
		UserID:        u.UserID,
		BookingID:     bookingID,
		Amount:        amount,
		Status:        PaymentCompleted,
		PaymentMethod: "Credit Card",
	})
	if _, err := p.store.UpdateBooking(bookingID, BookingPatch{PaymentID: &pay.PaymentID}); err != nil {
		return Payment{}, fmt.Errorf("link payment %d: %w", pay.PaymentID, err)
	}
	p.log.Info("booking paid", "booking_id", bookingID, "payment_id", pay.PaymentID, "amount", amount)
	return pay, nil
}

// CanCancel reports whether more than minCancelDays remain before b starts.
func CanCancel(b Booking, now time.Time) bool {
	start, err := time.Parse(dateLayout, b.StartDate)
	if err != nil {
		return false
	}
	days := math.Ceil(start.Sub(now).Hours() / 24)
	return days > minCancelDays
}

func (p *Portal) CancelBooking(bookingID int) (Booking, error) {
	u, err := p.requireRole(RoleCustomer)
	if err != nil {
		return Booking{}, err
	}
	b, ok := p.store.BookingByID(bookingID)
	if !ok || b.UserID != u.UserID {
		return Booking{}, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
	}
	if b.Status == BookingCancelled {
		return Booking{}, fmt.Errorf("%w: booking %d is already cancelled", ErrInvalidInput, bookingID)
	}
	if !CanCancel(b, p.now()) {
		return Booking{}, fmt.Errorf("%w: bookings can only be cancelled more than %d days before departure", ErrInvalidInput, minCancelDays)
	}
	return p.store.UpdateBooking(bookingID, BookingPatch{Status: Ptr(BookingCancelled)})
}

func (p *Portal) AddReview(packageID, rating int, comment string) (Review, error) {
	u, err := p.requireRole(RoleCustomer)
	if err != nil {
		return Review{}, err
	}
	if _, ok := p.store.PackageByID(packageID); !ok {
		return Review{}, fmt.Errorf("package %d: %w", packageID, ErrNotFound)
	}
	if rating < 1 || rating > 5 {
		return Review{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	return p.store.AddReview(Review{
		UserID:    u.UserID,
		PackageID: packageID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}), nil
}

// RequestAssistance opens a support ticket for any logged-in user.
func (p *Portal) RequestAssistance(issue, priority string) (AssistanceRequest, error) {
	u, err := p.CurrentUser()
	if err != nil {
		return AssistanceRequest{}, err
	}
	issue = strings.TrimSpace(issue)
	if issue == "" {
		return AssistanceRequest{}, fmt.Errorf("%w: describe the issue", ErrInvalidInput)
	}
	switch priority {
	case "":
		priority = "medium"
	case "low", "medium", "high":
	default:
		return AssistanceRequest{}, fmt.Errorf("%w: priority must be low, medium or high", ErrInvalidInput)
	}
	return p.store.AddAssistanceRequest(AssistanceRequest{
		UserID:           u.UserID,
		IssueDescription: issue,
		Priority:         priority,
	}), nil
}

// BookingView is a booking joined with what the dashboards show next to it.
// Missing references show up as empty names and a nil Payment.
type BookingView struct {
	Booking      Booking
	PackageTitle string
	CustomerName string
	Payment      *Payment
}

func (p *Portal) view(b Booking) BookingView {
	v := BookingView{Booking: b, PackageTitle: "Unknown package", CustomerName: "Unknown"}
	if pkg, ok := p.store.PackageByID(b.PackageID); ok {
		v.PackageTitle = pkg.Title
	}
	if u, ok := p.store.UserByID(b.UserID); ok {
		v.CustomerName = u.Name
	}
	if b.PaymentID != nil {
		if pay, ok := p.store.PaymentByID(*b.PaymentID); ok {
			v.Payment = &pay
		}
	}
	return v
}

// MyBookings lists the logged-in customer's bookings.
func (p *Portal) MyBookings() ([]BookingView, error) {
	u, err := p.requireRole(RoleCustomer)
	if err != nil {
		return nil, err
	}
	bookings := p.store.BookingsByUser(u.UserID)
	out := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, p.view(b))
	}
	return out, nil
}

// ------------------ Agent ------------------

// AddPackage publishes a package owned by the logged-in agent. Agents
// still waiting for approval cannot publish.
func (p *Portal) AddPackage(pkg TravelPackage) (TravelPackage, error) {
	u, err := p.requireRole(RoleAgent)
	if err != nil {
		return TravelPackage{}, err
	}
	if u.Approval != ApprovalApproved {
		return TravelPackage{}, fmt.Errorf("agent approval %s: %w", u.Approval, ErrForbidden)
	}
	pkg.Title = strings.TrimSpace(pkg.Title)
	if pkg.Title == "" || pkg.Price <= 0 {
		return TravelPackage{}, fmt.Errorf("%w: a package needs a title and a positive price", ErrInvalidInput)
	}
	pkg.AgentID = u.UserID
	return p.store.AddPackage(pkg), nil
}

// ownedPackage returns the package if the current user is its agent or an admin.
func (p *Portal) ownedPackage(id int) (TravelPackage, error) {
	u, err := p.requireRole(RoleAgent, RoleAdmin)
	if err != nil {
		return TravelPackage{}, err
	}
	pkg, ok := p.store.PackageByID(id)
	if !ok {
		return TravelPackage{}, fmt.Errorf("package %d: %w", id, ErrNotFound)
	}
	if u.Role == RoleAgent && pkg.AgentID != u.UserID {
		return TravelPackage{}, fmt.Errorf("package %d: %w", id, ErrForbidden)
	}
	return pkg, nil
}

func (p *Portal) UpdatePackage(id int, patch PackagePatch) (TravelPackage, error) {
	if _, err := p.ownedPackage(id); err != nil {
		return TravelPackage{}, err
	}
	return p.store.UpdatePackage(id, patch)
}

func (p *Portal) RemovePackage(id int) error {
	if _, err := p.ownedPackage(id); err != nil {
		return err
	}
	return p.store.DeletePackage(id)
}

// ------------------ Admin ------------------

func (p *Portal) SetApproval(userID int, approval Approval) (User, error) {
	if _, err := p.requireRole(RoleAdmin); err != nil {
		return User{}, err
	}
	switch approval {
	case ApprovalApproved, ApprovalPending, ApprovalRejected:
	default:
		return User{}, fmt.Errorf("%w: unknown approval %q", ErrInvalidInput, approval)
	}
	return p.store.UpdateUser(userID, UserPatch{Approval: &approval})
}

// RemoveUser deletes an account. Admins cannot remove themselves.
func (p *Portal) RemoveUser(userID int) error {
	admin, err := p.requireRole(RoleAdmin)
	if err != nil {
		return err
	}
	if admin.UserID == userID {
		return fmt.Errorf("%w: cannot remove your own account", ErrInvalidInput)
	}
	return p.store.DeleteUser(userID)
}

func (p *Portal) SetBookingStatus(bookingID int, status BookingStatus) (Booking, error) {
	if _, err := p.requireRole(RoleAdmin); err != nil {
		return Booking{}, err
	}
	switch status {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
	default:
		return Booking{}, fmt.Errorf("%w: unknown booking status %q", ErrInvalidInput, status)
	}
	return p.store.UpdateBooking(bookingID, BookingPatch{Status: &status})
}

// SetAssistanceStatus moves a request through triage. Completing it stamps
// the resolution time.
func (p *Portal) SetAssistanceStatus(requestID int, status RequestStatus) (AssistanceRequest, error) {
	if _, err := p.requireRole(RoleAdmin); err != nil {
		return AssistanceRequest{}, err
	}
	patch := AssistancePatch{Status: &status}
	switch status {
	case RequestPending, RequestInProgress:
	case RequestCompleted:
		patch.ResolutionTime = Ptr(p.now().UTC())
	default:
		return AssistanceRequest{}, fmt.Errorf("%w: unknown request status %q", ErrInvalidInput, status)
	}
	return p.store.UpdateAssistanceRequest(requestID, patch)
}

func (p *Portal) AllUsers() ([]User, error) {
	if _, err := p.requireRole(RoleAdmin); err != nil {
		return nil, err
	}
	return p.store.Users(), nil
}

// AllBookings lists every booking for the admin dashboard.
func (p *Portal) AllBookings() ([]BookingView, error) {
	if _, err := p.requireRole(RoleAdmin); err != nil {
		return nil, err
	}
	bookings := p.store.Bookings()
	out := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, p.view(b))
	}
	return out, nil
}

// Stats is the admin dashboard summary.
type Stats struct {
	Agents            int
	Customers         int
	Packages          int
	Bookings          int
	Revenue           float64
	PendingBookings   int
	ConfirmedBookings int
	PendingAssistance int
}

func (p *Portal) Stats() (Stats, error) {
	if _, err := p.requireRole(RoleAdmin); err != nil {
		return Stats{}, err
	}
	var st Stats
	for _, u := range p.store.Users() {
		switch u.Role {
		case RoleAgent:
			st.Agents++
		case RoleCustomer:
			st.Customers++
		}
	}
	st.Packages = len(p.store.Packages())
	bookings := p.store.Bookings()
	st.Bookings = len(bookings)
	for _, b := range bookings {
		switch b.Status {
		case BookingPending:
			st.PendingBookings++
		case BookingConfirmed:
			st.ConfirmedBookings++
		}
	}
	for _, pay := range p.store.Payments() {
		st.Revenue += pay.Amount
	}
	for _, r := range p.store.AssistanceRequests() {
		if r.Status == RequestPending {
			st.PendingAssistance++
		}
	}
	return st, nil
}

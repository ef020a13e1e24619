package portal

import "time"

// Role is the kind of account a user holds.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleAgent    Role = "agent"
	RoleCustomer Role = "customer"
)

// Approval is the admin review state of an account.
type Approval string

const (
	ApprovalApproved Approval = "approved"
	ApprovalPending  Approval = "pending"
	ApprovalRejected Approval = "rejected"
)

// BookingStatus tracks a booking from request to completion.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// RequestStatus tracks an assistance request through triage.
type RequestStatus string

const (
	RequestPending    RequestStatus = "pending"
	RequestInProgress RequestStatus = "in_progress"
	RequestCompleted  RequestStatus = "completed"
)

// User is an account of any role. Password holds either the plaintext
// fixture value or a bcrypt hash for accounts created through Register.
type User struct {
	UserID           int       `json:"UserID"`
	Name             string    `json:"Name"`
	Email            string    `json:"Email"`
	Password         string    `json:"Password"`
	Role             Role      `json:"Role"`
	ContactNumber    string    `json:"ContactNumber"`
	Approval         Approval  `json:"Approval"`
	RegistrationDate time.Time `json:"RegistrationDate"`
}

// TravelPackage is a trip offered by one agent.
type TravelPackage struct {
	PackageID        int     `json:"PackageID"`
	AgentID          int     `json:"AgentID"`
	Title            string  `json:"Title"`
	Description      string  `json:"Description"`
	Price            float64 `json:"Price"`
	Duration         string  `json:"Duration"`
	IncludedServices string  `json:"IncludedServices"`
	Image            string  `json:"Image"`
}

// Booking reserves a package for a customer. Dates are YYYY-MM-DD.
type Booking struct {
	BookingID int           `json:"BookingID"`
	UserID    int           `json:"UserID"`
	PackageID int           `json:"PackageID"`
	StartDate string        `json:"StartDate"`
	EndDate   string        `json:"EndDate"`
	Status    BookingStatus `json:"Status"`
	PaymentID *int          `json:"PaymentID"`
}

// Payment settles a booking.
type Payment struct {
	PaymentID     int           `json:"PaymentID"`
	UserID        int           `json:"UserID"`
	BookingID     int           `json:"BookingID"`
	Amount        float64       `json:"Amount"`
	Status        PaymentStatus `json:"Status"`
	PaymentMethod string        `json:"PaymentMethod"`
	Reference     string        `json:"Reference,omitempty"`
}

// Review is a customer's rating of a package.
type Review struct {
	ReviewID  int       `json:"ReviewID"`
	UserID    int       `json:"UserID"`
	PackageID int       `json:"PackageID"`
	Rating    int       `json:"Rating"`
	Comment   string    `json:"Comment"`
	Timestamp time.Time `json:"Timestamp"`
}

// Insurance is an entry of the read-only insurance catalog.
type Insurance struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// AssistanceRequest is a support ticket raised by a user.
type AssistanceRequest struct {
	RequestID        int           `json:"RequestID"`
	UserID           int           `json:"UserID"`
	IssueDescription string        `json:"IssueDescription"`
	Priority         string        `json:"Priority"`
	Status           RequestStatus `json:"Status"`
	ResolutionTime   *time.Time    `json:"ResolutionTime"`
	Timestamp        time.Time     `json:"Timestamp"`
}

// ---------------------------------------------------------------------------
// Partial updates
// ---------------------------------------------------------------------------

// UserPatch lists the user fields an update may change. Nil fields are left alone.
type UserPatch struct {
	Name          *string
	Email         *string
	Password      *string
	Role          *Role
	ContactNumber *string
	Approval      *Approval
}

func (p UserPatch) apply(u *User) {
	setIf(&u.Name, p.Name)
	setIf(&u.Email, p.Email)
	setIf(&u.Password, p.Password)
	setIf(&u.Role, p.Role)
	setIf(&u.ContactNumber, p.ContactNumber)
	setIf(&u.Approval, p.Approval)
}

type PackagePatch struct {
	Title            *string
	Description      *string
	Price            *float64
	Duration         *string
	IncludedServices *string
	Image            *string
}

func (p PackagePatch) apply(pkg *TravelPackage) {
	setIf(&pkg.Title, p.Title)
	setIf(&pkg.Description, p.Description)
	setIf(&pkg.Price, p.Price)
	setIf(&pkg.Duration, p.Duration)
	setIf(&pkg.IncludedServices, p.IncludedServices)
	setIf(&pkg.Image, p.Image)
}

// BookingPatch changes a booking. PaymentID links a payment; there is no
// way to unlink one.
type BookingPatch struct {
	StartDate *string
	EndDate   *string
	Status    *BookingStatus
	PaymentID *int
}

func (p BookingPatch) apply(b *Booking) {
	setIf(&b.StartDate, p.StartDate)
	setIf(&b.EndDate, p.EndDate)
	setIf(&b.Status, p.Status)
	if p.PaymentID != nil {
		id := *p.PaymentID
		b.PaymentID = &id
	}
}

type PaymentPatch struct {
	Amount        *float64
	Status        *PaymentStatus
	PaymentMethod *string
}

func (p PaymentPatch) apply(pay *Payment) {
	setIf(&pay.Amount, p.Amount)
	setIf(&pay.Status, p.Status)
	setIf(&pay.PaymentMethod, p.PaymentMethod)
}

type ReviewPatch struct {
	Rating  *int
	Comment *string
}

func (p ReviewPatch) apply(r *Review) {
	setIf(&r.Rating, p.Rating)
	setIf(&r.Comment, p.Comment)
}

type AssistancePatch struct {
	IssueDescription *string
	Priority         *string
	Status           *RequestStatus
	ResolutionTime   *time.Time
}

func (p AssistancePatch) apply(r *AssistanceRequest) {
	setIf(&r.IssueDescription, p.IssueDescription)
	setIf(&r.Priority, p.Priority)
	setIf(&r.Status, p.Status)
	if p.ResolutionTime != nil {
		t := *p.ResolutionTime
		r.ResolutionTime = &t
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Ptr returns a pointer to v. It keeps patch literals short.
func Ptr[T any](v T) *T { return &v }

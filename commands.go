package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"travel-portal/portal"

	"github.com/spf13/cobra"
)

// app carries the portal across commands. Outside the shell each process
// runs one command; inside it the same Portal serves every line, so store
// changes live until the shell exits.
type app struct {
	cfg     portal.Config
	portal  *portal.Portal
	inShell bool
}

func (a *app) open() error {
	if a.portal != nil {
		return nil
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: a.cfg.Level()}))
	p, err := portal.Open(a.cfg, logger)
	if err != nil {
		return err
	}
	a.portal = p
	return nil
}

func (a *app) close() {
	if a.portal != nil {
		a.portal.Close()
		a.portal = nil
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "portal",
		Short: "Travel booking portal",
		Long: `Browse travel packages, book and pay for trips, manage packages as an
agent, and approve users or triage support requests as an admin.

The login session is kept in the database between runs. Everything else
starts from the fixtures on every run; use "portal shell" to keep changes
for the length of a session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
	}
	if !a.inShell {
		root.PersistentFlags().StringVar(&a.cfg.DBPath, "db", a.cfg.DBPath, "SQLite database holding the session")
		root.PersistentFlags().StringVar(&a.cfg.FixturesPath, "fixtures", a.cfg.FixturesPath, "JSON fixture file (default: built-in demo data)")
		root.PersistentFlags().StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "debug, info, warn or error")
	}

	root.AddCommand(
		loginCmd(a),
		logoutCmd(a),
		whoamiCmd(a),
		registerCmd(a),
		profileCmd(a),
		packagesCmd(a),
		insuranceCmd(a),
		bookCmd(a),
		payCmd(a),
		cancelCmd(a),
		bookingsCmd(a),
		reviewCmd(a),
		assistCmd(a),
		requestsCmd(a),
		adminCmd(a),
		statsCmd(a),
	)
	if !a.inShell {
		root.AddCommand(shellCmd(a))
	}
	return root
}

// ------------------ Session ------------------

func loginCmd(a *app) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login EMAIL",
		Short: "Log in with email and password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				if password, err = readPassword("Password: "); err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
			}
			u, err := a.portal.Login(args[0], password)
			if err != nil {
				return err
			}
			fmt.Printf("Welcome, %s (%s)\n", u.Name, u.Role)
			if u.Approval != portal.ApprovalApproved {
				fmt.Printf("Note: your account approval is %s.\n", u.Approval)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.portal.Logout(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.portal.CurrentUser()
			if err != nil {
				return err
			}
			fmt.Printf("%-15s %d\n", "ID:", u.UserID)
			fmt.Printf("%-15s %s\n", "Name:", u.Name)
			fmt.Printf("%-15s %s\n", "Email:", u.Email)
			fmt.Printf("%-15s %s\n", "Role:", u.Role)
			fmt.Printf("%-15s %s\n", "Contact:", u.ContactNumber)
			fmt.Printf("%-15s %s\n", "Approval:", u.Approval)
			fmt.Printf("%-15s %s\n", "Registered:", u.RegistrationDate.Format("2006-01-02"))
			return nil
		},
	}
}

func registerCmd(a *app) *cobra.Command {
	var in portal.RegisterInput
	var role string
	cmd := &cobra.Command{
		Use:   "register NAME EMAIL",
		Short: "Create a customer or agent account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name, in.Email, in.Role = args[0], args[1], portal.Role(role)
			if in.Password == "" {
				var err error
				if in.Password, err = readPassword(fmt.Sprintf("Enter password for %s: ", in.Name)); err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
			}
			u, err := a.portal.Register(in)
			if err != nil {
				return err
			}
			fmt.Printf("Registered %s with ID %d (approval: %s)\n", u.Name, u.UserID, u.Approval)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in.Password, "password", "p", "", "password (prompted when omitted)")
	cmd.Flags().StringVar(&in.ContactNumber, "contact", "", "contact number")
	cmd.Flags().StringVar(&role, "role", string(portal.RoleCustomer), "customer or agent")
	return cmd
}

func profileCmd(a *app) *cobra.Command {
	var in portal.ProfileInput
	var changePassword bool
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Edit your own name, email, contact number or password",
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, err := a.portal.CurrentUser()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("name") {
				in.Name = cur.Name
			}
			if !cmd.Flags().Changed("email") {
				in.Email = cur.Email
			}
			if !cmd.Flags().Changed("contact") {
				in.ContactNumber = cur.ContactNumber
			}
			if changePassword {
				if in.Password, err = readPassword("New password: "); err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				if in.ConfirmPassword, err = readPassword("Confirm new password: "); err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
			}
			if _, err := a.portal.UpdateProfile(in); err != nil {
				return err
			}
			fmt.Println("Profile updated successfully!")
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "new name")
	cmd.Flags().StringVar(&in.Email, "email", "", "new email")
	cmd.Flags().StringVar(&in.ContactNumber, "contact", "", "new contact number")
	cmd.Flags().BoolVar(&changePassword, "password", false, "prompt for a new password")
	return cmd
}

// ------------------ Catalog ------------------

func packagesCmd(a *app) *cobra.Command {
	var agentID int
	cmd := &cobra.Command{
		Use:   "packages",
		Short: "List travel packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.portal.Store()
			pkgs := store.Packages()
			if agentID != 0 {
				pkgs = store.PackagesByAgent(agentID)
			}
			if len(pkgs) == 0 {
				fmt.Println("No packages available.")
				return nil
			}
			fmt.Printf("%-5s %-30s %-10s %-10s %-20s %s\n", "ID", "Title", "Price", "Duration", "Agent", "Rating")
			fmt.Println(strings.Repeat("-", 90))
			for _, p := range pkgs {
				agent := "Unknown"
				if u, ok := store.UserByID(p.AgentID); ok {
					agent = u.Name
				}
				fmt.Printf("%-5d %-30s %-10.2f %-10s %-20s %s\n",
					p.PackageID,
					truncateString(p.Title, 30),
					p.Price,
					truncateString(p.Duration, 10),
					truncateString(agent, 20),
					averageRating(store.ReviewsByPackage(p.PackageID)))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&agentID, "agent", 0, "only packages owned by this agent")
	cmd.AddCommand(packageAddCmd(a), packageUpdateCmd(a), packageRemoveCmd(a))
	return cmd
}

func averageRating(reviews []portal.Review) string {
	if len(reviews) == 0 {
		return "-"
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return fmt.Sprintf("%.1f (%d)", float64(total)/float64(len(reviews)), len(reviews))
}

func packageAddCmd(a *app) *cobra.Command {
	var pkg portal.TravelPackage
	cmd := &cobra.Command{
		Use:   "add TITLE PRICE",
		Short: "Publish a package (agents)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid price: %s", args[1])
			}
			pkg.Title, pkg.Price = args[0], price
			created, err := a.portal.AddPackage(pkg)
			if err != nil {
				return err
			}
			fmt.Printf("Added package ID %d\n", created.PackageID)
			return nil
		},
	}
	cmd.Flags().StringVar(&pkg.Description, "description", "", "description")
	cmd.Flags().StringVar(&pkg.Duration, "duration", "", "duration, e.g. \"7 days\"")
	cmd.Flags().StringVar(&pkg.IncludedServices, "services", "", "included services")
	cmd.Flags().StringVar(&pkg.Image, "image", "", "image URL")
	return cmd
}

func packageUpdateCmd(a *app) *cobra.Command {
	var title, description, duration, services, image string
	var price float64
	cmd := &cobra.Command{
		Use:   "update PACKAGE_ID",
		Short: "Change a package you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("package", args[0])
			if err != nil {
				return err
			}
			var patch portal.PackagePatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("price") {
				patch.Price = &price
			}
			if flags.Changed("duration") {
				patch.Duration = &duration
			}
			if flags.Changed("services") {
				patch.IncludedServices = &services
			}
			if flags.Changed("image") {
				patch.Image = &image
			}
			if _, err := a.portal.UpdatePackage(id, patch); err != nil {
				return err
			}
			fmt.Printf("Updated package %d\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().Float64Var(&price, "price", 0, "price")
	cmd.Flags().StringVar(&duration, "duration", "", "duration")
	cmd.Flags().StringVar(&services, "services", "", "included services")
	cmd.Flags().StringVar(&image, "image", "", "image URL")
	return cmd
}

func packageRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove PACKAGE_ID",
		Short: "Delete a package you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("package", args[0])
			if err != nil {
				return err
			}
			if err := a.portal.RemovePackage(id); err != nil {
				return err
			}
			fmt.Printf("Removed package %d\n", id)
			return nil
		},
	}
}

func insuranceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "insurance",
		Short: "List insurance options",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("%-5s %-25s %-10s %s\n", "ID", "Name", "Price", "Description")
			fmt.Println(strings.Repeat("-", 80))
			for _, ins := range a.portal.Store().Insurance() {
				fmt.Printf("%-5d %-25s %-10.2f %s\n", ins.ID, truncateString(ins.Name, 25), ins.Price, ins.Description)
			}
			return nil
		},
	}
}

// ------------------ Bookings ------------------

func bookCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "book PACKAGE_ID START END",
		Short: "Book a package (dates as YYYY-MM-DD)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("package", args[0])
			if err != nil {
				return err
			}
			b, err := a.portal.BookPackage(id, args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Printf("Booking %d created (pending). %s\n", b.BookingID, payHint(a, b.BookingID))
			return nil
		},
	}
}

// payHint tells the user how to pay for a new booking. Outside the shell the
// booking is gone once the process exits, so paying takes a shell session.
func payHint(a *app, bookingID int) string {
	if a.inShell {
		return fmt.Sprintf("Pay with: pay %d", bookingID)
	}
	return `Bookings last for one run only; use "portal shell" to book and pay in one session.`
}

func payCmd(a *app) *cobra.Command {
	var card portal.CardDetails
	var insuranceID int
	cmd := &cobra.Command{
		Use:   "pay BOOKING_ID",
		Short: "Pay for a booking by card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("booking", args[0])
			if err != nil {
				return err
			}
			if card.CVV == "" {
				if card.CVV, err = readPassword("CVV: "); err != nil {
					return fmt.Errorf("failed to read CVV: %w", err)
				}
			}
			pay, err := a.portal.PayBooking(id, insuranceID, card)
			if err != nil {
				return err
			}
			fmt.Printf("Payment successful! Paid %.2f (payment %d, ref %s)\n", pay.Amount, pay.PaymentID, pay.Reference)
			return nil
		},
	}
	cmd.Flags().StringVar(&card.Number, "card", "", "card number, XXXX XXXX XXXX XXXX")
	cmd.Flags().StringVar(&card.Expiry, "expiry", "", "expiry date, MM/YY")
	cmd.Flags().StringVar(&card.CVV, "cvv", "", "CVV (prompted when omitted)")
	cmd.Flags().StringVar(&card.Holder, "holder", "", "cardholder name")
	cmd.Flags().IntVar(&insuranceID, "insurance", 0, "insurance option ID (0 for none)")
	return cmd
}

func cancelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel BOOKING_ID",
		Short: "Cancel one of your bookings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("booking", args[0])
			if err != nil {
				return err
			}
			if _, err := a.portal.CancelBooking(id); err != nil {
				return err
			}
			fmt.Printf("Booking %d cancelled.\n", id)
			return nil
		},
	}
}

func bookingsCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "List your bookings (--all for admins)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var views []portal.BookingView
			var err error
			if all {
				views, err = a.portal.AllBookings()
			} else {
				views, err = a.portal.MyBookings()
			}
			if err != nil {
				return err
			}
			if len(views) == 0 {
				fmt.Println("No bookings.")
				return nil
			}
			fmt.Printf("%-5s %-20s %-25s %-11s %-11s %-10s %s\n", "ID", "Customer", "Package", "Start", "End", "Status", "Payment")
			fmt.Println(strings.Repeat("-", 110))
			for _, v := range views {
				payment := "Unpaid"
				if v.Payment != nil {
					payment = fmt.Sprintf("%s - %.2f", v.Payment.Status, v.Payment.Amount)
				}
				fmt.Printf("%-5d %-20s %-25s %-11s %-11s %-10s %s\n",
					v.Booking.BookingID,
					truncateString(v.CustomerName, 20),
					truncateString(v.PackageTitle, 25),
					v.Booking.StartDate,
					v.Booking.EndDate,
					v.Booking.Status,
					payment)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "every booking (admins)")
	return cmd
}

func reviewCmd(a *app) *cobra.Command {
	var comment string
	cmd := &cobra.Command{
		Use:   "review PACKAGE_ID RATING",
		Short: "Rate a package from 1 to 5",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("package", args[0])
			if err != nil {
				return err
			}
			rating, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid rating: %s", args[1])
			}
			r, err := a.portal.AddReview(id, rating, comment)
			if err != nil {
				return err
			}
			fmt.Printf("Thanks! Review %d saved.\n", r.ReviewID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&comment, "comment", "m", "", "comment")
	return cmd
}

// ------------------ Assistance ------------------

func assistCmd(a *app) *cobra.Command {
	var priority string
	cmd := &cobra.Command{
		Use:   "assist ISSUE...",
		Short: "Ask the support team for help",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.portal.RequestAssistance(strings.Join(args, " "), priority)
			if err != nil {
				return err
			}
			fmt.Printf("Assistance request %d submitted (priority %s).\n", r.RequestID, r.Priority)
			return nil
		},
	}
	cmd.Flags().StringVar(&priority, "priority", "medium", "low, medium or high")
	return cmd
}

func requestsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "requests",
		Short: "List assistance requests (all of them for admins)",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.portal.CurrentUser()
			if err != nil {
				return err
			}
			store := a.portal.Store()
			reqs := store.AssistanceRequestsByUser(u.UserID)
			if u.Role == portal.RoleAdmin {
				reqs = store.AssistanceRequests()
			}
			if len(reqs) == 0 {
				fmt.Println("No assistance requests.")
				return nil
			}
			fmt.Printf("%-5s %-20s %-8s %-12s %-17s %s\n", "ID", "User", "Priority", "Status", "Opened", "Issue")
			fmt.Println(strings.Repeat("-", 100))
			for _, r := range reqs {
				name := "Unknown"
				if owner, ok := store.UserByID(r.UserID); ok {
					name = owner.Name
				}
				fmt.Printf("%-5d %-20s %-8s %-12s %-17s %s\n",
					r.RequestID,
					truncateString(name, 20),
					r.Priority,
					r.Status,
					r.Timestamp.Format("2006-01-02 15:04"),
					truncateString(r.IssueDescription, 40))
			}
			return nil
		},
	}
}

// ------------------ Admin ------------------

func adminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administration commands",
	}
	cmd.AddCommand(
		adminUsersCmd(a),
		approvalCmd(a, "approve", portal.ApprovalApproved),
		approvalCmd(a, "reject", portal.ApprovalRejected),
		adminRemoveUserCmd(a),
		adminBookingStatusCmd(a),
		adminRequestStatusCmd(a),
		adminStatsCmd(a),
	)
	return cmd
}

func adminUsersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List every user",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := a.portal.AllUsers()
			if err != nil {
				return err
			}
			fmt.Printf("%-5s %-25s %-30s %-10s %-10s\n", "ID", "Name", "Email", "Role", "Approval")
			fmt.Println(strings.Repeat("-", 85))
			for _, u := range users {
				fmt.Printf("%-5d %-25s %-30s %-10s %-10s\n", u.UserID, truncateString(u.Name, 25), truncateString(u.Email, 30), u.Role, u.Approval)
			}
			return nil
		},
	}
}

func approvalCmd(a *app, use string, approval portal.Approval) *cobra.Command {
	return &cobra.Command{
		Use:   use + " USER_ID",
		Short: fmt.Sprintf("Mark a user as %s", approval),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("user", args[0])
			if err != nil {
				return err
			}
			u, err := a.portal.SetApproval(id, approval)
			if err != nil {
				return err
			}
			fmt.Printf("%s %s\n", u.Name, approval)
			return nil
		},
	}
}

func adminRemoveUserCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-user USER_ID",
		Short: "Delete a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("user", args[0])
			if err != nil {
				return err
			}
			if err := a.portal.RemoveUser(id); err != nil {
				return err
			}
			fmt.Printf("User %d removed.\n", id)
			return nil
		},
	}
}

func adminBookingStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "booking-status BOOKING_ID STATUS",
		Short: "Set a booking to pending, confirmed, completed or cancelled",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("booking", args[0])
			if err != nil {
				return err
			}
			b, err := a.portal.SetBookingStatus(id, portal.BookingStatus(args[1]))
			if err != nil {
				return err
			}
			fmt.Printf("Booking status updated to %s\n", b.Status)
			return nil
		},
	}
}

func adminRequestStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "request-status REQUEST_ID STATUS",
		Short: "Set an assistance request to pending, in_progress or completed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("request", args[0])
			if err != nil {
				return err
			}
			r, err := a.portal.SetAssistanceStatus(id, portal.RequestStatus(args[1]))
			if err != nil {
				return err
			}
			fmt.Printf("Assistance request status updated to %s\n", r.Status)
			return nil
		},
	}
}

func adminStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the admin summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.portal.Stats()
			if err != nil {
				return err
			}
			fmt.Printf("%-22s %d\n", "Agents:", st.Agents)
			fmt.Printf("%-22s %d\n", "Customers:", st.Customers)
			fmt.Printf("%-22s %d\n", "Packages:", st.Packages)
			fmt.Printf("%-22s %d\n", "Bookings:", st.Bookings)
			fmt.Printf("%-22s %d\n", "Pending bookings:", st.PendingBookings)
			fmt.Printf("%-22s %d\n", "Confirmed bookings:", st.ConfirmedBookings)
			fmt.Printf("%-22s %d\n", "Pending assistance:", st.PendingAssistance)
			fmt.Printf("%-22s %.2f\n", "Revenue:", st.Revenue)
			return nil
		},
	}
}

// statsCmd prints the mutation and login counters collected so far. Only
// useful inside the shell, where they accumulate.
func statsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show store mutation and login counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, err := a.portal.Metrics().Samples()
			if err != nil {
				return err
			}
			if len(samples) == 0 {
				fmt.Println("No activity recorded yet.")
				return nil
			}
			for _, s := range samples {
				keys := make([]string, 0, len(s.Labels))
				for k := range s.Labels {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				pairs := make([]string, 0, len(keys))
				for _, k := range keys {
					pairs = append(pairs, k+"="+s.Labels[k])
				}
				fmt.Printf("%-35s %-40s %.0f\n", s.Name, strings.Join(pairs, ","), s.Value)
			}
			return nil
		},
	}
}

func parseID(kind, s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID: %s", kind, s)
	}
	return id, nil
}

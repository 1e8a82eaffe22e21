package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/data/repository"
	"movie-booking/internal/dto/request"
	"movie-booking/internal/dto/response"
	"movie-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthUser is the signed-in user a submission books for.
type AuthUser struct {
	ID    uuid.UUID
	Email string
}

type CheckoutService interface {
	Open(ctx context.Context, req *request.OpenCheckoutRequest, user *AuthUser) (*response.CheckoutResponse, error)
	Get(ctx context.Context, checkoutID string) (*response.CheckoutResponse, error)
	Showtimes(ctx context.Context, checkoutID string) (*response.ShowtimeOptionsResponse, error)

	SelectDate(ctx context.Context, checkoutID string, req *request.SelectDateRequest) (*response.CheckoutResponse, error)
	PickShowtime(ctx context.Context, checkoutID string, req *request.PickShowtimeRequest) (*response.CheckoutResponse, error)
	SetSeats(ctx context.Context, checkoutID string, req *request.SetSeatsRequest) (*response.CheckoutResponse, error)
	OpenSeatMap(ctx context.Context, checkoutID string) (*response.CheckoutResponse, error)
	ToggleSeat(ctx context.Context, checkoutID string, req *request.ToggleSeatRequest) (*response.CheckoutResponse, error)
	ConfirmSeats(ctx context.Context, checkoutID string, user *AuthUser) (*response.CheckoutResponse, error)
	ChoosePaymentMethod(ctx context.Context, checkoutID string, req *request.PaymentMethodRequest) (*response.CheckoutResponse, error)
	Pay(ctx context.Context, checkoutID string, user *AuthUser) (*response.CheckoutResponse, error)
	Back(ctx context.Context, checkoutID string) (*response.CheckoutResponse, error)
	Done(ctx context.Context, checkoutID string) (*response.CheckoutResponse, error)
	Close(ctx context.Context, checkoutID string, user *AuthUser) error

	// WaitNotifications blocks until every dispatched confirmation has finished.
	WaitNotifications()
}

type CheckoutConfig struct {
	Flow         FlowVariant
	TTL          time.Duration
	PaymentDelay time.Duration
}

// notifyTimeout bounds one confirmation dispatch.
const notifyTimeout = 10 * time.Second

type CheckoutOption func(*checkoutService)

func WithClock(now func() time.Time) CheckoutOption {
	return func(s *checkoutService) { s.now = now }
}

// WithSleep replaces the payment delay wait.
func WithSleep(sleep func(time.Duration)) CheckoutOption {
	return func(s *checkoutService) { s.sleep = sleep }
}

type checkoutService struct {
	repo     *repository.Repository
	bookings BookingLifecycle
	notifier Notifier
	cfg      CheckoutConfig
	now      func() time.Time
	sleep    func(time.Duration)
	locks    *checkoutLocks
	notices  sync.WaitGroup
	log      *zap.Logger
}

func NewCheckoutService(
	repo *repository.Repository,
	bookings BookingLifecycle,
	notifier Notifier,
	cfg CheckoutConfig,
	log *zap.Logger,
	opts ...CheckoutOption,
) CheckoutService {
	if cfg.Flow == "" {
		cfg.Flow = FlowFull
	}
	s := &checkoutService{
		repo:     repo,
		bookings: bookings,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
		sleep:    time.Sleep,
		locks:    newCheckoutLocks(),
		log:      log.With(zap.String("service", "checkout")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lock serializes every change to one checkout, a running submission included.
func (s *checkoutService) lock(id uuid.UUID) func() {
	return s.locks.lock(id)
}

// checkoutLocks holds one mutex per checkout in use, so a payment waiting
// out its delay only blocks its own checkout.
type checkoutLocks struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*checkoutLock
}

type checkoutLock struct {
	mu   sync.Mutex
	refs int
}

func newCheckoutLocks() *checkoutLocks {
	return &checkoutLocks{byID: make(map[uuid.UUID]*checkoutLock)}
}

func (l *checkoutLocks) lock(id uuid.UUID) func() {
	l.mu.Lock()
	entry, ok := l.byID[id]
	if !ok {
		entry = &checkoutLock{}
		l.byID[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.byID, id)
		}
		l.mu.Unlock()
	}
}

// size is the number of checkouts currently locked or waited on.
func (l *checkoutLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byID)
}

func parseCheckoutID(checkoutID string) (uuid.UUID, error) {
	id, err := uuid.Parse(checkoutID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid checkout ID format %s: %w", checkoutID, err)
	}
	return id, nil
}

func (s *checkoutService) load(ctx context.Context, id uuid.UUID) (*Checkout, error) {
	payload, err := s.repo.Checkout.Get(ctx, id)
	if err != nil {
		s.log.Error("Failed to load checkout", zap.Error(err), zap.String("checkout_id", id.String()))
		return nil, fmt.Errorf("load checkout: %w", err)
	}
	if payload == nil {
		return nil, ErrCheckoutNotFound
	}
	return decodeCheckout(payload)
}

func (s *checkoutService) save(ctx context.Context, c *Checkout) error {
	c.UpdatedAt = s.now()
	payload, err := encodeCheckout(c)
	if err != nil {
		return err
	}
	if err := s.repo.Checkout.Save(ctx, c.ID, payload, s.cfg.TTL); err != nil {
		s.log.Error("Failed to save checkout", zap.Error(err), zap.String("checkout_id", c.ID.String()))
		return fmt.Errorf("save checkout: %w", err)
	}
	return nil
}

// update applies one pure transition under the checkout lock and stores the
// result. Nothing is stored when apply fails.
func (s *checkoutService) update(ctx context.Context, checkoutID string, apply func(c *Checkout) error) (*response.CheckoutResponse, error) {
	id, err := parseCheckoutID(checkoutID)
	if err != nil {
		return nil, err
	}

	unlock := s.lock(id)
	defer unlock()

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(c); err != nil {
		return nil, err
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return s.toResponse(c), nil
}

func (s *checkoutService) Open(ctx context.Context, req *request.OpenCheckoutRequest, user *AuthUser) (*response.CheckoutResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	variant := s.cfg.Flow
	if req.Flow != "" {
		v, err := ParseFlowVariant(req.Flow)
		if err != nil {
			return nil, err
		}
		variant = v
	}

	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, fmt.Errorf("invalid movie id: %w", err)
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		s.log.Error("Failed to get movie for checkout", zap.Error(err), zap.String("movie_id", req.MovieID))
		return nil, fmt.Errorf("get movie: %w", err)
	}
	if movie == nil {
		return nil, fmt.Errorf("movie %s not found", req.MovieID)
	}

	c := NewCheckout(uuid.New(), movie, variant, s.now())
	if user != nil {
		c.OwnerID = user.ID
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}

	s.log.Info("Checkout opened",
		zap.String("checkout_id", c.ID.String()),
		zap.String("movie_id", movie.ID.String()),
		zap.String("flow", string(variant)),
	)

	return s.toResponse(c), nil
}

func (s *checkoutService) Get(ctx context.Context, checkoutID string) (*response.CheckoutResponse, error) {
	id, err := parseCheckoutID(checkoutID)
	if err != nil {
		return nil, err
	}
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(c), nil
}

func (s *checkoutService) Showtimes(ctx context.Context, checkoutID string) (*response.ShowtimeOptionsResponse, error) {
	id, err := parseCheckoutID(checkoutID)
	if err != nil {
		return nil, err
	}
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	shows, err := s.repo.Showtime.FindByMovieID(ctx, c.Movie.ID)
	if err != nil {
		s.log.Error("Failed to get showtimes", zap.Error(err), zap.String("movie_id", c.Movie.ID.String()))
		return nil, fmt.Errorf("get showtimes: %w", err)
	}

	return showtimeOptions(shows, c.Date, s.now()), nil
}

func (s *checkoutService) SelectDate(ctx context.Context, checkoutID string, req *request.SelectDateRequest) (*response.CheckoutResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}
	return s.update(ctx, checkoutID, func(c *Checkout) error {
		return c.SelectDate(req.Date)
	})
}

func (s *checkoutService) PickShowtime(ctx context.Context, checkoutID string, req *request.PickShowtimeRequest) (*response.CheckoutResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}
	showtimeID, err := uuid.Parse(req.ShowtimeID)
	if err != nil {
		return nil, fmt.Errorf("invalid showtime id: %w", err)
	}

	return s.update(ctx, checkoutID, func(c *Checkout) error {
		st, err := s.repo.Showtime.FindByID(ctx, showtimeID)
		if err != nil {
			return fmt.Errorf("get showtime: %w", err)
		}
		return c.PickShowtime(st)
	})
}

func (s *checkoutService) SetSeats(ctx context.Context, checkoutID string, req *request.SetSeatsRequest) (*response.CheckoutResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}
	return s.update(ctx, checkoutID, func(c *Checkout) error {
		return c.SetSeats(req.Seats)
	})
}

func (s *checkoutService) OpenSeatMap(ctx context.Context, checkoutID string) (*response.CheckoutResponse, error) {
	return s.update(ctx, checkoutID, func(c *Checkout) error {
		return c.OpenSeatMap()
	})
}

func (s *checkoutService) ToggleSeat(ctx context.Context, checkoutID string, req *request.ToggleSeatRequest) (*response.CheckoutResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}
	return s.update(ctx, checkoutID, func(c *Checkout) error {
		_, err := c.ToggleSeat(req.SeatID)
		return err
	})
}

func (s *checkoutService) ChoosePaymentMethod(ctx context.Context, checkoutID string, req *request.PaymentMethodRequest) (*response.CheckoutResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}
	return s.update(ctx, checkoutID, func(c *Checkout) error {
		return c.ChoosePaymentMethod(entity.PaymentMethod(req.Method))
	})
}

func (s *checkoutService) Back(ctx context.Context, checkoutID string) (*response.CheckoutResponse, error) {
	return s.update(ctx, checkoutID, func(c *Checkout) error {
		return c.Back()
	})
}

func (s *checkoutService) ConfirmSeats(ctx context.Context, checkoutID string, user *AuthUser) (*response.CheckoutResponse, error) {
	id, err := parseCheckoutID(checkoutID)
	if err != nil {
		return nil, err
	}

	unlock := s.lock(id)
	defer unlock()

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	submit, err := c.ConfirmSeats()
	if err != nil {
		return nil, err
	}
	if submit {
		return s.submit(ctx, c, user)
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return s.toResponse(c), nil
}

func (s *checkoutService) Pay(ctx context.Context, checkoutID string, user *AuthUser) (*response.CheckoutResponse, error) {
	id, err := parseCheckoutID(checkoutID)
	if err != nil {
		return nil, err
	}

	unlock := s.lock(id)
	defer unlock()

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Step.Kind() == StepSeatMap && c.Variant == FlowSeatMap {
		return nil, ErrInvalidTransition
	}

	return s.submit(ctx, c, user)
}

// submit books the order: create pending, wait out the payment, mark paid.
// The caller holds the checkout lock. A lifecycle failure reverts the step
// and is returned together with the reverted checkout. The first submitting
// user claims an unowned checkout.
func (s *checkoutService) submit(ctx context.Context, c *Checkout, user *AuthUser) (*response.CheckoutResponse, error) {
	if user == nil || user.ID == uuid.Nil {
		return nil, ErrAuthenticationRequired
	}
	if err := c.Authorize(user); err != nil {
		s.log.Warn("Checkout submitted by another user",
			zap.String("checkout_id", c.ID.String()),
			zap.String("user_id", user.ID.String()),
		)
		return nil, err
	}
	c.OwnerID = user.ID

	order, err := c.Order()
	if err != nil {
		return nil, err
	}

	// Leaving the page does not stop a payment that has started.
	ctx = context.WithoutCancel(ctx)

	in := CreateBookingInput{
		UserID:     user.ID,
		MovieID:    c.Movie.ID,
		Seats:      order.Seats,
		SeatLabels: order.SeatIDs,
		Method:     order.Method,
		Total:      order.Total,
	}
	if order.Showtime != nil {
		showtimeID := order.Showtime.ID
		in.ShowtimeID = &showtimeID
	}

	booking, err := s.bookings.CreateBooking(ctx, in)
	if err != nil {
		return s.fail(ctx, c, order, &LifecycleError{Op: "create", Err: err})
	}

	c.beginPaying(order, booking.ID)
	if err := s.save(ctx, c); err != nil {
		s.cancel(ctx, booking.ID)
		return nil, err
	}

	s.sleep(s.cfg.PaymentDelay)

	paid, err := s.bookings.UpdateStatus(ctx, booking.ID, entity.BookingStatusPaid)
	if err != nil {
		s.cancel(ctx, booking.ID)
		return s.fail(ctx, c, order, &LifecycleError{Op: "update", Err: err})
	}

	notice := ConfirmationNotice{
		BookingID:  paid.ID.String(),
		OrderID:    paid.OrderID,
		Email:      user.Email,
		MovieTitle: c.Movie.Title,
		Seats:      order.Seats,
		SeatIDs:    order.SeatIDs,
		Total:      order.Total,
		Message:    confirmationMessage(user.Email, order.Seats, c.Movie.Title, order.Total),
		SentAt:     s.now(),
	}

	c.confirm(order, paid, notice.Message)
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}

	s.log.Info("Checkout confirmed",
		zap.String("checkout_id", c.ID.String()),
		zap.String("booking_id", paid.ID.String()),
		zap.String("order_id", paid.OrderID),
		zap.Int("seats", order.Seats),
		zap.Float64("total", order.Total),
	)

	s.notify(ctx, notice)

	return s.toResponse(c), nil
}

// notify sends the confirmation in the background. The response does not
// wait for it and a failure only logs.
func (s *checkoutService) notify(ctx context.Context, notice ConfirmationNotice) {
	s.notices.Add(1)
	go func() {
		defer s.notices.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()

		if err := s.notifier.BookingConfirmed(ctx, notice); err != nil {
			s.log.Warn("Failed to send booking confirmation",
				zap.Error(err),
				zap.String("booking_id", notice.BookingID),
			)
		}
	}()
}

func (s *checkoutService) WaitNotifications() {
	s.notices.Wait()
}

func (s *checkoutService) fail(ctx context.Context, c *Checkout, order Order, lerr *LifecycleError) (*response.CheckoutResponse, error) {
	s.log.Warn("Checkout submission failed",
		zap.Error(lerr.Err),
		zap.String("op", lerr.Op),
		zap.String("checkout_id", c.ID.String()),
	)

	c.revert(order)
	if err := s.save(ctx, c); err != nil {
		return nil, errors.Join(lerr, err)
	}
	return s.toResponse(c), lerr
}

// cancel gives up a pending booking. A failure leaves it pending.
func (s *checkoutService) cancel(ctx context.Context, bookingID uuid.UUID) {
	if _, err := s.bookings.UpdateStatus(ctx, bookingID, entity.BookingStatusCancelled); err != nil {
		s.log.Error("Failed to cancel pending booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
	}
}

func (s *checkoutService) Done(ctx context.Context, checkoutID string) (*response.CheckoutResponse, error) {
	id, err := parseCheckoutID(checkoutID)
	if err != nil {
		return nil, err
	}

	unlock := s.lock(id)
	defer unlock()

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Done(s.now()); err != nil {
		return nil, err
	}
	c.UpdatedAt = s.now()

	if err := s.repo.Checkout.Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete checkout", zap.Error(err), zap.String("checkout_id", checkoutID))
		return nil, fmt.Errorf("delete checkout: %w", err)
	}

	return s.toResponse(c), nil
}

func (s *checkoutService) Close(ctx context.Context, checkoutID string, user *AuthUser) error {
	id, err := parseCheckoutID(checkoutID)
	if err != nil {
		return err
	}

	// A running submission holds the lock and has stored the paying step,
	// so look before waiting on it.
	if c, err := s.load(ctx, id); err != nil {
		return err
	} else if err := c.Authorize(user); err != nil {
		return err
	} else if !c.CanClose() {
		return ErrCheckoutBusy
	}

	unlock := s.lock(id)
	defer unlock()

	c, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := c.Authorize(user); err != nil {
		return err
	}
	if !c.CanClose() {
		return ErrCheckoutBusy
	}

	if err := s.repo.Checkout.Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete checkout", zap.Error(err), zap.String("checkout_id", checkoutID))
		return fmt.Errorf("delete checkout: %w", err)
	}

	s.log.Debug("Checkout closed", zap.String("checkout_id", checkoutID))
	return nil
}

// ==================== RESPONSES ====================

func (s *checkoutService) toResponse(c *Checkout) *response.CheckoutResponse {
	resp := &response.CheckoutResponse{
		ID:        c.ID.String(),
		Flow:      string(c.Variant),
		Step:      string(c.Step.Kind()),
		Movie:     response.MovieToResponse(c.Movie),
		Date:      c.Date,
		Seats:     c.Seats(),
		MaxSeats:  max(0, c.MaxSeats()),
		Housefull: c.Housefull(),
		UnitPrice: c.UnitPrice(),
		Total:     c.Total(),
		UpdatedAt: c.UpdatedAt,
	}

	if st := c.Showtime(); st != nil {
		show := response.ShowtimeToResponse(st)
		resp.Showtime = &show
	}

	switch step := c.Step.(type) {
	case *SeatMapStep:
		resp.SeatMap = seatMapToResponse(step.Selection)
	case *PaymentStep:
		resp.SeatIDs = step.SeatIDs
		resp.PaymentMethods = paymentMethodResponses()
		resp.PaymentMethod = string(step.Method)
	case *PayingStep:
		resp.SeatIDs = step.Order.SeatIDs
		resp.PaymentMethod = string(step.Order.Method)
		resp.BookingID = step.BookingID.String()
	case *ConfirmedStep:
		resp.SeatIDs = step.Order.SeatIDs
		resp.PaymentMethod = string(step.Order.Method)
		resp.BookingID = step.BookingID.String()
		resp.OrderID = step.OrderID
		resp.Notice = step.Notice
	}

	return resp
}

func seatMapToResponse(sel *SeatSelection) *response.SeatMapResponse {
	grid := sel.Grid()
	rows := make([]response.SeatRowResponse, len(grid))
	for r, cells := range grid {
		seats := make([]response.SeatCellResponse, len(cells))
		for i, cell := range cells {
			seats[i] = response.SeatCellResponse{ID: cell.ID, Status: string(cell.Status)}
		}
		rows[r] = response.SeatRowResponse{Label: string(seatRowLabels[r]), Seats: seats}
	}

	return &response.SeatMapResponse{
		Quota:      sel.Quota(),
		Selected:   sel.Selected(),
		CanConfirm: sel.CanConfirm(),
		Rows:       rows,
	}
}

func paymentMethodResponses() []response.PaymentMethodResponse {
	methods := make([]response.PaymentMethodResponse, len(entity.PaymentMethods))
	for i, m := range entity.PaymentMethods {
		methods[i] = response.PaymentMethodToResponse(m)
	}
	return methods
}

// showtimeOptions builds the date picker and the theater list for one date.
func showtimeOptions(shows []*entity.Showtime, date string, today time.Time) *response.ShowtimeOptionsResponse {
	groups := GroupByTheater(FilterByDate(shows, date))

	theaters := make([]response.TheaterShowtimesResponse, len(groups))
	for i, g := range groups {
		items := make([]response.ShowtimeResponse, len(g.Shows))
		for j, st := range g.Shows {
			items[j] = response.ShowtimeToResponse(st)
		}
		theaters[i] = response.TheaterShowtimesResponse{
			Theater: response.TheaterToResponse(&g.Theater),
			Shows:   items,
		}
	}

	return &response.ShowtimeOptionsResponse{
		Date:     date,
		Dates:    DateOptions(shows, today),
		Theaters: theaters,
	}
}

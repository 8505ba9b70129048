package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/foodlink/foodlink-backend/internal/cart"
	"github.com/foodlink/foodlink-backend/internal/logger"
	"github.com/foodlink/foodlink-backend/internal/model"
	"github.com/foodlink/foodlink-backend/internal/reqctx"
	"github.com/foodlink/foodlink-backend/internal/repository"
	"github.com/foodlink/foodlink-backend/internal/schedule"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrMixedDonorCart       = errors.New("cart holds items from more than one donor")
	ErrInvalidPickupWindow  = errors.New("pickup date or time outside the allowed window")
	ErrInvalidTransition    = errors.New("status transition not allowed")
	ErrUpstreamUnavailable  = errors.New("storage unavailable")
	ErrInsufficientQuantity = repository.ErrInsufficientQuantity
)

// DeliveryGroup is the read model of one checkout: every pickup request
// sharing a delivery number. Members share date, time, status and parties
// by construction, so group attributes come from any member.
type DeliveryGroup struct {
	DeliveryNumber  string
	Status          model.PickupStatus
	PickupDate      string
	PickupTime      string
	DonorID         uint64
	ReceiverID      uint64
	CounterpartName string
	Requests        []model.PickupRequest
}

type PickupService interface {
	// Submit turns a receiver's cart into one delivery: one PENDING pickup
	// request per cart line, all under a fresh delivery number, created
	// atomically with the item quantities reserved. The caller owns the
	// cart and clears it after a successful submit.
	Submit(ctx context.Context, receiverID uint64, c *cart.Cart, pickupDate, pickupTime string) (*DeliveryGroup, error)
	// Transition moves every member of a delivery to target. Only the
	// donor who owns the delivery may call it.
	Transition(ctx context.Context, deliveryNumber string, target model.PickupStatus, actor *model.User) ([]model.PickupRequest, error)
	PendingForDonor(ctx context.Context, donorID uint64) ([]DeliveryGroup, error)
	PendingForReceiver(ctx context.Context, receiverID uint64) ([]DeliveryGroup, error)
	HistoryForUser(ctx context.Context, u *model.User) ([]DeliveryGroup, error)
}

type pickupService struct {
	pickupRepo repository.PickupRequestRepository
	itemRepo   repository.FoodItemRepository
	userRepo   repository.UserRepository
	notify     NotificationService
	log        logger.Logger
	newNumber  func() string
}

func NewPickupService(pickupRepo repository.PickupRequestRepository, itemRepo repository.FoodItemRepository, userRepo repository.UserRepository, notify NotificationService, log logger.Logger) PickupService {
	return &pickupService{
		pickupRepo: pickupRepo,
		itemRepo:   itemRepo,
		userRepo:   userRepo,
		notify:     notify,
		log:        log,
		newNumber:  newDeliveryNumber,
	}
}

func (s *pickupService) Submit(ctx context.Context, receiverID uint64, c *cart.Cart, pickupDate, pickupTime string) (*DeliveryGroup, error) {
	if c == nil {
		return nil, ErrEmptyCart
	}
	// Work on a snapshot so a concurrent cart edit cannot change the lines
	// between validation and creation.
	snap := c.Snapshot()
	if snap.Empty() {
		return nil, ErrEmptyCart
	}

	if _, err := time.Parse(dateLayout, pickupDate); err != nil {
		return nil, ErrInvalidPickupWindow
	}
	// YYYY-MM-DD strings order the same way the dates do, so the window
	// check stays free of time-zone arithmetic.
	tomorrow := time.Now().AddDate(0, 0, 1).Format(dateLayout)
	// Pickups need at least one day of lead time.
	if pickupDate < tomorrow {
		return nil, ErrInvalidPickupWindow
	}
	if earliest, ok := earliestExpiry(snap.Lines); ok && pickupDate > earliest {
		return nil, ErrInvalidPickupWindow
	}

	donor, err := s.userRepo.FindByID(ctx, snap.DonorID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	slots, err := schedule.GenerateSlots(donor.AvailabilityTimeFrom, donor.AvailabilityTimeTo)
	if err != nil {
		return nil, ErrInvalidPickupWindow
	}
	if !contains(slots, pickupTime) {
		return nil, ErrInvalidPickupWindow
	}

	// Re-validate every line against the live catalog; stock may have moved
	// since the lines were staged. The transactional decrement below is the
	// real guard, this just gives a precise error before touching anything.
	for _, line := range snap.Lines {
		item, err := s.itemRepo.FindByID(ctx, line.ItemID)
		if err != nil {
			return nil, mapRepoErr(err)
		}
		if item.DonorID != snap.DonorID {
			return nil, ErrMixedDonorCart
		}
		if line.Requested > item.Quantity {
			return nil, ErrInsufficientQuantity
		}
	}

	deliveryNumber, err := s.allocateDeliveryNumber(ctx)
	if err != nil {
		return nil, err
	}
	reqs := make([]model.PickupRequest, 0, len(snap.Lines))
	for _, line := range snap.Lines {
		reqs = append(reqs, model.PickupRequest{
			DeliveryNumber: deliveryNumber,
			ReceiverID:     receiverID,
			DonorID:        snap.DonorID,
			FoodItemID:     line.ItemID,
			Quantity:       line.Requested,
			PickupDate:     pickupDate,
			PickupTime:     pickupTime,
			Status:         model.StatusPending,
		})
	}
	if err := s.pickupRepo.CreateGroup(ctx, reqs); err != nil {
		if errors.Is(err, repository.ErrInsufficientQuantity) {
			return nil, ErrInsufficientQuantity
		}
		return nil, mapRepoErr(err)
	}

	s.log.Info("pickup requests created",
		logger.String("rid", reqctx.RID(ctx)),
		logger.String("uid", reqctx.UID(ctx)),
		logger.String("deliveryNumber", deliveryNumber),
		logger.Uint64("receiverId", receiverID),
		logger.Uint64("donorId", snap.DonorID),
		logger.Int("lines", len(reqs)))

	if s.notify != nil {
		receiver, rerr := s.userRepo.FindByID(ctx, receiverID)
		name := "A receiver"
		if rerr == nil {
			name = receiver.Username
		}
		s.notify.Notify(ctx, donor.ID, "pickup_requested",
			"New pickup request",
			fmt.Sprintf("%s requested %d item(s) for pickup on %s at %s.", name, len(reqs), pickupDate, pickupTime),
			nil, &deliveryNumber)
	}

	group := &DeliveryGroup{
		DeliveryNumber:  deliveryNumber,
		Status:          model.StatusPending,
		PickupDate:      pickupDate,
		PickupTime:      pickupTime,
		DonorID:         snap.DonorID,
		ReceiverID:      receiverID,
		CounterpartName: donor.Username,
		Requests:        reqs,
	}
	return group, nil
}

func (s *pickupService) Transition(ctx context.Context, deliveryNumber string, target model.PickupStatus, actor *model.User) ([]model.PickupRequest, error) {
	members, err := s.pickupRepo.FindByDeliveryNumber(ctx, deliveryNumber)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if len(members) == 0 {
		return nil, ErrNotFound
	}
	if actor.Role != model.RoleDonor || actor.ID != members[0].DonorID {
		return nil, ErrForbidden
	}
	current := members[0].Status
	if !current.CanTransitionTo(target) {
		return nil, ErrInvalidTransition
	}

	updated, err := s.pickupRepo.UpdateStatusByDeliveryNumber(ctx, deliveryNumber, current, target)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if updated == 0 {
		// The group moved under us; the conditional update refused it.
		return nil, ErrInvalidTransition
	}

	s.log.Info("delivery transitioned",
		logger.String("rid", reqctx.RID(ctx)),
		logger.String("uid", reqctx.UID(ctx)),
		logger.String("deliveryNumber", deliveryNumber),
		logger.String("from", string(current)),
		logger.String("to", string(target)),
		logger.Uint64("donorId", actor.ID))

	if s.notify != nil {
		s.notify.Notify(ctx, members[0].ReceiverID, "delivery_status",
			"Delivery "+string(target),
			fmt.Sprintf("Delivery %s is now %s.", deliveryNumber, target),
			nil, &deliveryNumber)
	}

	for i := range members {
		members[i].Status = target
	}
	return members, nil
}

func (s *pickupService) PendingForDonor(ctx context.Context, donorID uint64) ([]DeliveryGroup, error) {
	reqs, err := s.pickupRepo.ListByDonor(ctx, donorID, true)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return s.group(ctx, reqs, model.RoleDonor)
}

func (s *pickupService) PendingForReceiver(ctx context.Context, receiverID uint64) ([]DeliveryGroup, error) {
	reqs, err := s.pickupRepo.ListByReceiver(ctx, receiverID, true)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return s.group(ctx, reqs, model.RoleReceiver)
}

func (s *pickupService) HistoryForUser(ctx context.Context, u *model.User) ([]DeliveryGroup, error) {
	var (
		reqs []model.PickupRequest
		err  error
	)
	if u.Role == model.RoleDonor {
		reqs, err = s.pickupRepo.ListByDonor(ctx, u.ID, false)
	} else {
		reqs, err = s.pickupRepo.ListByReceiver(ctx, u.ID, false)
	}
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return s.group(ctx, reqs, u.Role)
}

// group partitions requests by delivery number. Input arrives ordered by
// delivery number ascending, which is the documented view order.
func (s *pickupService) group(ctx context.Context, reqs []model.PickupRequest, viewer model.UserRole) ([]DeliveryGroup, error) {
	groups := make([]DeliveryGroup, 0)
	index := make(map[string]int)
	counterpartIDs := make([]uint64, 0)
	for _, req := range reqs {
		i, ok := index[req.DeliveryNumber]
		if !ok {
			counterpartID := req.ReceiverID
			if viewer == model.RoleReceiver {
				counterpartID = req.DonorID
			}
			counterpartIDs = append(counterpartIDs, counterpartID)
			index[req.DeliveryNumber] = len(groups)
			groups = append(groups, DeliveryGroup{
				DeliveryNumber: req.DeliveryNumber,
				Status:         req.Status,
				PickupDate:     req.PickupDate,
				PickupTime:     req.PickupTime,
				DonorID:        req.DonorID,
				ReceiverID:     req.ReceiverID,
			})
			i = len(groups) - 1
		}
		groups[i].Requests = append(groups[i].Requests, req)
	}

	names, err := s.userRepo.FindByIDs(ctx, counterpartIDs)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	for i := range groups {
		counterpartID := groups[i].ReceiverID
		if viewer == model.RoleReceiver {
			counterpartID = groups[i].DonorID
		}
		if u, ok := names[counterpartID]; ok {
			groups[i].CounterpartName = u.Username
		}
	}
	return groups, nil
}

// newDeliveryNumber mints the key shared by every request of one checkout.
// Format carried over from the legacy system: DEL-YYYYMMDD-XXXXXX.
func newDeliveryNumber() string {
	return fmt.Sprintf("DEL-%s-%06d", time.Now().Format("20060102"), rand.IntN(999999)+1)
}

// allocateDeliveryNumber mints a number no stored request already carries.
// The suffix space is six digits per day; a colliding number would merge
// two checkouts into one group, so candidates are checked before use.
func (s *pickupService) allocateDeliveryNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		candidate := s.newNumber()
		existing, err := s.pickupRepo.FindByDeliveryNumber(ctx, candidate)
		if err != nil {
			return "", mapRepoErr(err)
		}
		if len(existing) == 0 {
			return candidate, nil
		}
	}
	return "", errors.New("could not allocate a delivery number")
}

func earliestExpiry(lines []cart.Line) (string, bool) {
	earliest := ""
	for _, l := range lines {
		if _, err := time.Parse(dateLayout, l.ExpiryDate); err != nil {
			// Unparseable expiry dates never tighten the window.
			continue
		}
		if earliest == "" || l.ExpiryDate < earliest {
			earliest = l.ExpiryDate
		}
	}
	return earliest, earliest != ""
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

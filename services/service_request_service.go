package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pureflow/pureflow-api/logger"
	"github.com/pureflow/pureflow-api/models"
	"github.com/pureflow/pureflow-api/repositories"
	"github.com/pureflow/pureflow-api/utils"
)

// CreateServiceRequestInput carries the fields a client submits when raising
// a request.
type CreateServiceRequestInput struct {
	UserID        uint
	ServiceID     uint
	Description   string
	PreferredDate time.Time
	PreferredTime *string
	Address       *string
}

// ServiceRequestService owns the service request lifecycle. It is the only
// code that writes a request's status field.
type ServiceRequestService struct {
	requests *repositories.ServiceRequestRepository
	subs     *repositories.SubscriptionRepository
	catalog  *repositories.CatalogRepository
}

// NewServiceRequestService creates a ServiceRequestService over the given handle
func NewServiceRequestService(db *gorm.DB) *ServiceRequestService {
	return &ServiceRequestService{
		requests: repositories.NewServiceRequestRepository(db),
		subs:     repositories.NewSubscriptionRepository(db),
		catalog:  repositories.NewCatalogRepository(db),
	}
}

// Create raises a new request in the pending state. Only clients holding an
// active subscription may raise requests.
func (s *ServiceRequestService) Create(in CreateServiceRequestInput) (*models.ServiceRequest, error) {
	if in.Description == "" {
		return nil, NewValidationError("description is required")
	}
	if in.PreferredDate.IsZero() {
		return nil, NewValidationError("preferredDate is required")
	}

	if _, err := s.catalog.GetServiceByID(in.ServiceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("unknown service id %d", in.ServiceID)
		}
		return nil, fmt.Errorf("failed to load service: %w", err)
	}

	hasActive, err := s.subs.HasActive(in.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active subscriptions: %w", err)
	}
	if !hasActive {
		return nil, ErrNoActiveSubscription
	}

	req := &models.ServiceRequest{
		UserID:        in.UserID,
		ServiceID:     in.ServiceID,
		Description:   in.Description,
		PreferredDate: in.PreferredDate,
		PreferredTime: in.PreferredTime,
		Address:       in.Address,
		Status:        models.ServiceRequestPending,
	}
	if err := s.requests.Create(req); err != nil {
		return nil, fmt.Errorf("failed to create service request: %w", err)
	}

	logger.L().Info("service request created",
		zap.Uint("request_id", req.ID),
		zap.Uint("user_id", in.UserID),
		zap.Uint("service_id", in.ServiceID),
	)
	return req, nil
}

// UpdateStatus drives a request through its state machine. Only technicians
// and admins may call it; the target must be reachable from the current
// status per the transition table.
func (s *ServiceRequestService) UpdateStatus(requestID uint, next models.ServiceRequestStatus, notes *string, actorRole models.Role) (*models.ServiceRequest, error) {
	if !actorRole.IsStaff() {
		return nil, ErrUnauthorized
	}

	req, err := s.requests.GetByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load service request: %w", err)
	}

	if !next.Valid() || !req.Status.CanTransitionTo(next) {
		return nil, NewInvalidTransition(string(req.Status), string(next))
	}

	affected, err := s.requests.UpdateStatusIf(req.ID, req.Status, next, notes)
	if err != nil {
		return nil, fmt.Errorf("failed to update service request: %w", err)
	}
	if affected == 0 {
		// a concurrent actor moved the request first
		return nil, ErrConflict
	}

	logger.L().Info("service request status updated",
		zap.Uint("request_id", req.ID),
		zap.String("from", string(req.Status)),
		zap.String("to", string(next)),
	)
	return s.requests.GetByID(req.ID)
}

// Cancel is the client-initiated path: only the owner may cancel, and only
// while the request is still pending.
func (s *ServiceRequestService) Cancel(requestID, actorID uint) (*models.ServiceRequest, error) {
	req, err := s.requests.GetByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load service request: %w", err)
	}

	if req.UserID != actorID {
		return nil, ErrUnauthorized
	}
	if req.Status != models.ServiceRequestPending {
		return nil, NewInvalidTransition(string(req.Status), string(models.ServiceRequestCancelled))
	}

	affected, err := s.requests.UpdateStatusIf(req.ID, models.ServiceRequestPending, models.ServiceRequestCancelled, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel service request: %w", err)
	}
	if affected == 0 {
		return nil, ErrConflict
	}

	logger.L().Info("service request cancelled by owner",
		zap.Uint("request_id", req.ID),
		zap.Uint("user_id", actorID),
	)
	return s.requests.GetByID(req.ID)
}

// AttachPhoto validates and stores a photo for the request; owner only. The
// stored key replaces any previous one.
func (s *ServiceRequestService) AttachPhoto(requestID, actorID uint, fileHeader *multipart.FileHeader) (*models.ServiceRequest, error) {
	req, err := s.requests.GetByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load service request: %w", err)
	}
	if req.UserID != actorID {
		return nil, ErrUnauthorized
	}

	if err := utils.ValidatePhotoFile(fileHeader); err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			return nil, &ServiceError{Code: uploadErr.Code, Message: uploadErr.Message}
		}
		return nil, err
	}

	photos := GetPhotoService()
	if photos == nil {
		return nil, ErrPhotosUnavailable
	}
	key, err := photos.UploadPhoto(fileHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	if req.PhotoS3Key != nil {
		// superseded photo; removal failure is not worth failing the request
		if err := photos.DeletePhoto(*req.PhotoS3Key); err != nil {
			logger.L().Warn("failed to delete superseded photo",
				zap.String("key", *req.PhotoS3Key), zap.Error(err))
		}
	}

	if err := s.requests.SetPhotoKey(req.ID, key); err != nil {
		return nil, fmt.Errorf("failed to record photo key: %w", err)
	}
	return s.requests.GetByID(req.ID)
}

// ListForUser returns the user's requests with presigned photo URLs
func (s *ServiceRequestService) ListForUser(userID uint) ([]models.ServiceRequest, error) {
	reqs, err := s.requests.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	decoratePhotoURLs(reqs)
	return reqs, nil
}

// ListAll returns every request (technician/admin views)
func (s *ServiceRequestService) ListAll() ([]models.ServiceRequest, error) {
	reqs, err := s.requests.ListAll()
	if err != nil {
		return nil, err
	}
	decoratePhotoURLs(reqs)
	return reqs, nil
}

func decoratePhotoURLs(reqs []models.ServiceRequest) {
	photos := GetPhotoService()
	if photos == nil {
		return
	}
	for i := range reqs {
		if reqs[i].PhotoS3Key == nil {
			continue
		}
		url, err := photos.GetPhotoURL(*reqs[i].PhotoS3Key)
		if err != nil {
			logger.L().Warn("failed to presign photo URL",
				zap.String("key", *reqs[i].PhotoS3Key), zap.Error(err))
			continue
		}
		if url != "" {
			reqs[i].PhotoURL = &url
		}
	}
}

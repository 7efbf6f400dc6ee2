package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"csemotors/web/internal/media/sniffer"
	"csemotors/web/internal/models"
	"csemotors/web/internal/repository"
	"csemotors/web/internal/validation"
	"csemotors/web/internal/worker/tasks"
)

const (
	msgClassificationExists  = "Classification already exists. Please choose a different name."
	msgClassificationInvalid = "Classification is required and must be a valid ID."
	msgImageUnsupported      = "Image must be a JPEG, PNG, GIF or WebP file."
	msgImageUploadsDisabled  = "Image uploads are not available. Please provide an image path."

	// pendingUpload satisfies the required path rules while the uploaded file
	// has not been stored yet.
	pendingUpload = "pending-upload"
)

// ImageUpload is an optional photo submitted with the add-vehicle form.
type ImageUpload struct {
	Filename string
	Declared string
	Content  io.Reader
}

type InventoryService struct {
	classifications ClassificationRepository
	nav             ClassificationCache
	vehicles        VehicleRepository
	images          ImageStore
	queue           TaskQueue
	validator       *validation.Validator
	log             zerolog.Logger
}

// NewInventoryService wires the inventory rules. images and queue may be nil
// when object storage is disabled.
func NewInventoryService(
	classifications ClassificationRepository,
	nav ClassificationCache,
	vehicles VehicleRepository,
	images ImageStore,
	queue TaskQueue,
	validator *validation.Validator,
	log zerolog.Logger,
) *InventoryService {
	return &InventoryService{
		classifications: classifications,
		nav:             nav,
		vehicles:        vehicles,
		images:          images,
		queue:           queue,
		validator:       validator,
		log:             log,
	}
}

func (s *InventoryService) Classifications(ctx context.Context) ([]models.Classification, error) {
	return s.nav.List(ctx)
}

// UploadsEnabled reports whether vehicle photos can be stored.
func (s *InventoryService) UploadsEnabled() bool {
	return s.images != nil
}

func (s *InventoryService) WarmClassifications(ctx context.Context) error {
	_, err := s.nav.Refresh(ctx)
	return err
}

func (s *InventoryService) AddClassification(ctx context.Context, form validation.Classification) (models.Classification, error) {
	form.Normalize()
	errs := s.validator.Check(form)
	if !errs.Has("classification_name") {
		exists, err := s.classifications.NameExists(ctx, form.Name)
		if err != nil {
			return models.Classification{}, fmt.Errorf("check classification: %w", err)
		}
		if exists {
			errs = append(errs, validation.FieldError{Field: "classification_name", Message: msgClassificationExists})
		}
	}
	if len(errs) > 0 {
		return models.Classification{}, errs
	}

	created, err := s.classifications.Create(ctx, form.Name)
	if errors.Is(err, repository.ErrDuplicate) {
		return models.Classification{}, validation.Errors{{Field: "classification_name", Message: msgClassificationExists}}
	}
	if err != nil {
		return models.Classification{}, fmt.Errorf("%w: create classification: %v", ErrWriteFailed, err)
	}

	if err := s.nav.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("nav cache not invalidated")
	}
	return created, nil
}

func (s *InventoryService) VehiclesByClassification(ctx context.Context, classificationID int) ([]models.Vehicle, error) {
	vehicles, err := s.vehicles.ListByClassification(ctx, classificationID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return vehicles, nil
}

func (s *InventoryService) Vehicle(ctx context.Context, id int) (models.Vehicle, error) {
	vehicle, err := s.vehicles.GetByID(ctx, id)
	if errors.Is(err, repository.ErrVehicleNotFound) {
		return models.Vehicle{}, ErrNotFound
	}
	if err != nil {
		return models.Vehicle{}, fmt.Errorf("get vehicle: %w", err)
	}
	return vehicle, nil
}

func (s *InventoryService) AddVehicle(ctx context.Context, form validation.Vehicle, upload *ImageUpload) (models.Vehicle, error) {
	form.Normalize()
	if upload != nil {
		if form.Image == "" {
			form.Image = pendingUpload
		}
		if form.Thumbnail == "" {
			form.Thumbnail = pendingUpload
		}
	}

	errs := s.validator.Check(form)

	var (
		data   []byte
		detect sniffer.Result
	)
	if upload != nil {
		var err error
		data, detect, err = s.readUpload(upload)
		switch {
		case s.images == nil:
			errs = append(errs, validation.FieldError{Field: "inv_image", Message: msgImageUploadsDisabled})
		case errors.Is(err, sniffer.ErrUnknownType):
			errs = append(errs, validation.FieldError{Field: "inv_image", Message: msgImageUnsupported})
		case err != nil:
			return models.Vehicle{}, err
		}
	}
	if len(errs) > 0 {
		return models.Vehicle{}, errs
	}

	var stored string
	if upload != nil {
		url, err := s.storeImage(ctx, data, detect)
		if err != nil {
			return models.Vehicle{}, err
		}
		stored = url
		if form.Image == pendingUpload {
			form.Image = url
		}
		if form.Thumbnail == pendingUpload {
			form.Thumbnail = url
		}
	}

	created, err := s.vehicles.Create(ctx, vehicleFromForm(form))
	if err != nil && stored != "" {
		// The row never landed, so nothing else will reference the object.
		s.enqueueImageCleanup(ctx, models.Vehicle{Image: stored})
	}
	if errors.Is(err, repository.ErrClassificationNotFound) {
		return models.Vehicle{}, validation.Errors{{Field: "classification_id", Message: msgClassificationInvalid}}
	}
	if err != nil {
		return models.Vehicle{}, fmt.Errorf("%w: create vehicle: %v", ErrWriteFailed, err)
	}
	return created, nil
}

func (s *InventoryService) readUpload(upload *ImageUpload) ([]byte, sniffer.Result, error) {
	result, head, err := sniffer.Detect(upload.Content)
	if err != nil {
		return nil, sniffer.Result{}, err
	}
	if upload.Declared != "" && upload.Declared != "application/octet-stream" && upload.Declared != result.MIME {
		return nil, sniffer.Result{}, sniffer.ErrUnknownType
	}
	rest, err := io.ReadAll(upload.Content)
	if err != nil {
		return nil, sniffer.Result{}, fmt.Errorf("read upload: %w", err)
	}
	return append(head, rest...), result, nil
}

func (s *InventoryService) storeImage(ctx context.Context, data []byte, detect sniffer.Result) (string, error) {
	key := path.Join(time.Now().UTC().Format("2006/01/02"), ksuid.New().String()+"."+detect.Extension())
	url, err := s.images.Put(ctx, key, data, detect.MIME)
	if err != nil {
		return "", fmt.Errorf("store vehicle image: %w", err)
	}
	s.log.Debug().Str("object", key).Int("bytes", len(data)).Msg("vehicle image stored")
	return url, nil
}

// UpdateVehicle rejects a missing or malformed id before touching storage.
func (s *InventoryService) UpdateVehicle(ctx context.Context, rawID string, form validation.Vehicle) (models.Vehicle, error) {
	id, ok := validation.ParseID(rawID)
	if !ok {
		return models.Vehicle{}, ErrInvalidID
	}

	form.Normalize()
	if errs := s.validator.Check(form); len(errs) > 0 {
		return models.Vehicle{}, errs
	}

	if _, err := s.Vehicle(ctx, id); err != nil {
		return models.Vehicle{}, err
	}

	vehicle := vehicleFromForm(form)
	vehicle.ID = id
	rows, err := s.vehicles.Update(ctx, vehicle)
	if errors.Is(err, repository.ErrClassificationNotFound) {
		return models.Vehicle{}, validation.Errors{{Field: "classification_id", Message: msgClassificationInvalid}}
	}
	if err != nil {
		return models.Vehicle{}, fmt.Errorf("update vehicle: %w", err)
	}
	if rows == 0 {
		return models.Vehicle{}, ErrWriteFailed
	}
	return vehicle, nil
}

// DeleteVehicle removes the row and queues removal of any image it owned in
// the object store.
func (s *InventoryService) DeleteVehicle(ctx context.Context, rawID string) (models.Vehicle, error) {
	id, ok := validation.ParseID(rawID)
	if !ok {
		return models.Vehicle{}, ErrInvalidID
	}

	vehicle, err := s.Vehicle(ctx, id)
	if err != nil {
		return models.Vehicle{}, err
	}

	rows, err := s.vehicles.Delete(ctx, id)
	if err != nil {
		return models.Vehicle{}, fmt.Errorf("delete vehicle: %w", err)
	}
	if rows == 0 {
		return models.Vehicle{}, ErrWriteFailed
	}

	s.enqueueImageCleanup(ctx, vehicle)
	return vehicle, nil
}

func (s *InventoryService) enqueueImageCleanup(ctx context.Context, vehicle models.Vehicle) {
	if s.images == nil || s.queue == nil {
		return
	}
	seen := map[string]bool{}
	for _, url := range []string{vehicle.Image, vehicle.Thumbnail} {
		key, ok := s.images.KeyFor(url)
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		task := tasks.Task{Type: tasks.TypeImageDelete, Object: key, VehicleID: vehicle.ID}
		if err := s.queue.Enqueue(ctx, task); err != nil {
			s.log.Warn().Err(err).Str("object", key).Msg("image cleanup not queued")
		}
	}
}

func vehicleFromForm(form validation.Vehicle) models.Vehicle {
	classificationID, _ := validation.ParseID(form.ClassificationID)
	return models.Vehicle{
		Make:             form.Make,
		Model:            form.Model,
		Year:             validation.OptionalInt(form.Year),
		Description:      form.Description,
		Image:            form.Image,
		Thumbnail:        form.Thumbnail,
		Price:            validation.OptionalFloat(form.Price),
		Miles:            validation.OptionalInt(form.Miles),
		Color:            form.Color,
		ClassificationID: classificationID,
	}
}

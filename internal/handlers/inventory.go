package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"csemotors/web/internal/media/sniffer"
	"csemotors/web/internal/models"
	"csemotors/web/internal/service"
	"csemotors/web/internal/validation"
	"csemotors/web/internal/view"
)

const (
	msgNoVehicles            = "No vehicles found for this classification."
	msgVehicleNotFound       = "Sorry, we could not find that specific vehicle."
	msgEditNotFound          = "Inventory Item not found for editing."
	msgInvalidInventoryID    = "A valid inventory id is required."
	msgUpdateFailed          = "Sorry, the update failed."
	msgDeleteFailed          = "Sorry, the delete failed."
	msgAddClassificationFail = "Sorry, adding classification failed."
	msgAddVehicleFail        = "Sorry, adding vehicle failed."
	msgUploadUnreadable      = "The uploaded image could not be read."

	uploadField = "inv_upload"
)

type inventoryItem struct {
	ID                 int      `json:"inv_id"`
	Make               string   `json:"inv_make"`
	Model              string   `json:"inv_model"`
	Year               *int     `json:"inv_year"`
	Description        string   `json:"inv_description"`
	Image              string   `json:"inv_image"`
	Thumbnail          string   `json:"inv_thumbnail"`
	Price              *float64 `json:"inv_price"`
	Miles              *int     `json:"inv_miles"`
	Color              string   `json:"inv_color"`
	ClassificationID   int      `json:"classification_id"`
	ClassificationName string   `json:"classification_name"`
}

func (h HandlerSet) ByClassification(c *gin.Context) {
	id, ok := validation.ParseID(c.Param("classificationId"))
	if !ok {
		h.Fail(c, http.StatusNotFound, msgNoVehicles)
		return
	}

	vehicles, err := h.inventory.VehiclesByClassification(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if len(vehicles) == 0 {
		h.Fail(c, http.StatusNotFound, msgNoVehicles)
		return
	}

	page := h.page(c, vehicles[0].ClassificationName+" vehicles", id)
	page.Content = view.ClassificationContent{Grid: view.BuildClassificationGrid(vehicles)}
	h.html(c, http.StatusOK, "inventory/classification", page)
}

func (h HandlerSet) VehicleDetail(c *gin.Context) {
	id, ok := validation.ParseID(c.Param("invId"))
	if !ok {
		h.Fail(c, http.StatusNotFound, msgVehicleNotFound)
		return
	}
	h.vehicleDetail(c, http.StatusOK, id, reviewDraft{})
}

// reviewDraft is a rejected review shown again under the vehicle.
type reviewDraft struct {
	errs   validation.Errors
	text   string
	rating string
}

func (h HandlerSet) vehicleDetail(c *gin.Context, status int, id int, draft reviewDraft) {
	ctx := c.Request.Context()

	vehicle, err := h.inventory.Vehicle(ctx, id)
	if errors.Is(err, service.ErrNotFound) {
		h.Fail(c, http.StatusNotFound, msgVehicleNotFound)
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	reviews, err := h.reviews.ForVehicle(ctx, id)
	if err != nil {
		h.serverError(c, err)
		return
	}

	page := h.page(c, vehicleTitle(vehicle), vehicle.ClassificationID)
	page.Errors = draft.errs
	content := view.DetailContent{
		Vehicle:      view.BuildDetails(vehicle),
		Reviews:      view.BuildReviewList(reviews),
		ReviewText:   draft.text,
		ReviewRating: draft.rating,
	}
	if page.Identity != nil {
		content.CanReview = true
		content.ReviewerLabel = page.Identity.FirstName
	}
	page.Content = content
	h.html(c, status, "inventory/detail", page)
}

// InventoryJSON feeds the management view's classification picker.
func (h HandlerSet) InventoryJSON(c *gin.Context) {
	id, ok := validation.ParseID(c.Param("classification_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid classification id"})
		return
	}

	vehicles, err := h.inventory.VehiclesByClassification(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "inventory unavailable"})
		return
	}
	if len(vehicles) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No data returned"})
		return
	}

	items := make([]inventoryItem, 0, len(vehicles))
	for _, v := range vehicles {
		items = append(items, inventoryItem{
			ID:                 v.ID,
			Make:               v.Make,
			Model:              v.Model,
			Year:               v.Year,
			Description:        v.Description,
			Image:              v.Image,
			Thumbnail:          v.Thumbnail,
			Price:              v.Price,
			Miles:              v.Miles,
			Color:              v.Color,
			ClassificationID:   v.ClassificationID,
			ClassificationName: v.ClassificationName,
		})
	}
	c.JSON(http.StatusOK, items)
}

func (h HandlerSet) Management(c *gin.Context) {
	ctx := c.Request.Context()

	classifications, err := h.inventory.Classifications(ctx)
	if err != nil {
		h.serverError(c, err)
		return
	}

	selected, _ := validation.ParseID(c.Query("classification_id"))
	content := view.ManagementContent{
		Options:  view.BuildClassificationOptions(classifications, selected),
		Selected: selected,
	}
	if selected > 0 {
		vehicles, err := h.inventory.VehiclesByClassification(ctx, selected)
		if err != nil {
			h.serverError(c, err)
			return
		}
		content.Vehicles = view.BuildClassificationGrid(vehicles)
	}

	page := h.page(c, "Vehicle Management", 0)
	page.Content = content
	h.html(c, http.StatusOK, "inventory/management", page)
}

func (h HandlerSet) AddClassificationView(c *gin.Context) {
	page := h.page(c, "Add New Classification", 0)
	page.Content = view.ClassificationFormContent{}
	h.html(c, http.StatusOK, "inventory/add-classification", page)
}

func (h HandlerSet) AddClassification(c *gin.Context) {
	var form validation.Classification
	_ = c.ShouldBind(&form)

	created, err := h.inventory.AddClassification(c.Request.Context(), form)
	if err != nil {
		form.Normalize()
		page := h.page(c, "Add New Classification", 0)
		page.Content = view.ClassificationFormContent{Name: form.Name}

		status := http.StatusBadRequest
		if errs, ok := validationErrors(err); ok {
			page.Errors = errs
		} else if errors.Is(err, service.ErrWriteFailed) {
			h.log.Error().Err(err).Msg("classification not stored")
			status = http.StatusNotImplemented
			page.Notices = append(page.Notices, msgAddClassificationFail)
		} else {
			h.serverError(c, err)
			return
		}
		h.html(c, status, "inventory/add-classification", page)
		return
	}

	h.Redirect(c, "/inv/", fmt.Sprintf("Classification %q was successfully added.", created.Name))
}

func (h HandlerSet) AddVehicleView(c *gin.Context) {
	h.vehicleForm(c, http.StatusOK, "inventory/add-inventory", "Add New Vehicle", 0, validation.Vehicle{}, nil, "")
}

func (h HandlerSet) AddVehicle(c *gin.Context) {
	var form validation.Vehicle
	_ = c.ShouldBind(&form)

	upload, closeUpload, errs := h.vehicleUpload(c)
	defer closeUpload()
	if len(errs) > 0 {
		form.Normalize()
		h.vehicleForm(c, http.StatusBadRequest, "inventory/add-inventory", "Add New Vehicle", 0, form, errs, "")
		return
	}

	created, err := h.inventory.AddVehicle(c.Request.Context(), form, upload)
	if err != nil {
		form.Normalize()
		if errs, ok := validationErrors(err); ok {
			h.vehicleForm(c, http.StatusBadRequest, "inventory/add-inventory", "Add New Vehicle", 0, form, errs, "")
			return
		}
		if errors.Is(err, service.ErrWriteFailed) {
			h.log.Error().Err(err).Msg("vehicle not stored")
			h.vehicleForm(c, http.StatusNotImplemented, "inventory/add-inventory", "Add New Vehicle", 0, form, nil, msgAddVehicleFail)
			return
		}
		h.serverError(c, err)
		return
	}

	h.Redirect(c, "/inv/", fmt.Sprintf("Vehicle %s was successfully added.", created.Name()))
}

// vehicleUpload opens the optional photo. The returned func releases it and is
// always safe to call.
func (h HandlerSet) vehicleUpload(c *gin.Context) (*service.ImageUpload, func(), validation.Errors) {
	noop := func() {}

	header, err := c.FormFile(uploadField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, validation.Errors{{Field: "inv_image", Message: msgUploadUnreadable}}
	}
	if header.Size == 0 {
		return nil, noop, nil
	}

	limit := h.cfg.HTTP.MaxUploadMB << 20
	if limit > 0 && header.Size > limit {
		return nil, noop, validation.Errors{{
			Field:   "inv_image",
			Message: fmt.Sprintf("Image must be smaller than %d MB.", h.cfg.HTTP.MaxUploadMB),
		}}
	}

	file, err := header.Open()
	if err != nil {
		return nil, noop, validation.Errors{{Field: "inv_image", Message: msgUploadUnreadable}}
	}

	return &service.ImageUpload{
		Filename: header.Filename,
		Declared: sniffer.DeclaredType(http.Header(header.Header)),
		Content:  file,
	}, closer(file), nil
}

func closer(file multipart.File) func() {
	return func() { _ = file.Close() }
}

func (h HandlerSet) EditVehicleView(c *gin.Context) {
	id, ok := validation.ParseID(c.Param("inventoryId"))
	if !ok {
		h.Fail(c, http.StatusNotFound, msgEditNotFound)
		return
	}

	vehicle, err := h.inventory.Vehicle(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		h.Fail(c, http.StatusNotFound, msgEditNotFound)
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	h.vehicleForm(c, http.StatusOK, "inventory/edit-inventory", "Edit "+vehicle.Name(), vehicle.ID, formFromVehicle(vehicle), nil, "")
}

// UpdateVehicle checks inv_id before anything reaches storage.
func (h HandlerSet) UpdateVehicle(c *gin.Context) {
	var form validation.Vehicle
	_ = c.ShouldBind(&form)
	rawID := c.PostForm("inv_id")

	updated, err := h.inventory.UpdateVehicle(c.Request.Context(), rawID, form)
	if err != nil {
		form.Normalize()
		id, _ := validation.ParseID(rawID)
		title := "Edit " + form.Make + " " + form.Model

		switch errs, ok := validationErrors(err); {
		case errors.Is(err, service.ErrInvalidID):
			h.Fail(c, http.StatusBadRequest, msgInvalidInventoryID)
		case errors.Is(err, service.ErrNotFound):
			h.Fail(c, http.StatusNotFound, msgEditNotFound)
		case ok:
			h.vehicleForm(c, http.StatusBadRequest, "inventory/edit-inventory", title, id, form, errs, "")
		case errors.Is(err, service.ErrWriteFailed):
			h.log.Error().Err(err).Int("inv_id", id).Msg("vehicle update not stored")
			h.vehicleForm(c, http.StatusNotImplemented, "inventory/edit-inventory", title, id, form, nil, msgUpdateFailed)
		default:
			h.serverError(c, err)
		}
		return
	}

	h.Redirect(c, "/inv/", fmt.Sprintf("The %s was successfully updated.", updated.Name()))
}

func (h HandlerSet) DeleteVehicleView(c *gin.Context) {
	id, ok := validation.ParseID(c.Param("invId"))
	if !ok {
		h.Fail(c, http.StatusNotFound, msgVehicleNotFound)
		return
	}

	vehicle, err := h.inventory.Vehicle(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		h.Fail(c, http.StatusNotFound, msgVehicleNotFound)
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	page := h.page(c, "Delete "+vehicle.Name(), 0)
	page.Content = view.VehicleDeleteContent{
		InvID: vehicle.ID,
		Name:  vehicle.Name(),
		Year:  view.FormatYear(vehicle.Year),
		Price: view.FormatPrice(vehicle.Price),
	}
	h.html(c, http.StatusOK, "inventory/delete-confirm", page)
}

func (h HandlerSet) DeleteVehicle(c *gin.Context) {
	deleted, err := h.inventory.DeleteVehicle(c.Request.Context(), c.PostForm("inv_id"))
	switch {
	case errors.Is(err, service.ErrInvalidID):
		h.Fail(c, http.StatusBadRequest, msgInvalidInventoryID)
	case errors.Is(err, service.ErrNotFound):
		h.Fail(c, http.StatusNotFound, msgVehicleNotFound)
	case errors.Is(err, service.ErrWriteFailed):
		h.Fail(c, http.StatusNotImplemented, msgDeleteFailed)
	case err != nil:
		h.serverError(c, err)
	default:
		h.Redirect(c, "/inv/", fmt.Sprintf("The %s was successfully deleted.", deleted.Name()))
	}
}

func (h HandlerSet) vehicleForm(c *gin.Context, status int, name, title string, invID int, form validation.Vehicle, errs validation.Errors, notice string) {
	classifications, err := h.inventory.Classifications(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}

	selected, _ := validation.ParseID(form.ClassificationID)
	page := h.page(c, title, 0)
	page.Errors = errs
	if notice != "" {
		page.Notices = append(page.Notices, notice)
	}
	page.Content = view.VehicleFormContent{
		InvID:         invID,
		Form:          form,
		Options:       view.BuildClassificationOptions(classifications, selected),
		UploadEnabled: h.inventory.UploadsEnabled() && invID == 0,
	}
	h.html(c, status, name, page)
}

func formFromVehicle(v models.Vehicle) validation.Vehicle {
	return validation.Vehicle{
		Make:             v.Make,
		Model:            v.Model,
		Year:             view.FormValue(v.Year),
		Description:      v.Description,
		Image:            v.Image,
		Thumbnail:        v.Thumbnail,
		Price:            view.FormValue(v.Price),
		Miles:            view.FormValue(v.Miles),
		Color:            v.Color,
		ClassificationID: strconv.Itoa(v.ClassificationID),
	}
}

func vehicleTitle(v models.Vehicle) string {
	if v.Year == nil {
		return v.Name()
	}
	return strconv.Itoa(*v.Year) + " " + v.Name()
}

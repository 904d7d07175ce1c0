package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Mohahamed99-by/Texturnhub/internal/pkg/validate"
)

// OfferService talks to the /offers endpoints.
type OfferService struct {
	client *Client
}

// NewOfferService creates an offer service on top of the shared client.
func NewOfferService(c *Client) *OfferService {
	return &OfferService{client: c}
}

// OfferQuery selects offers server-side. Zero values are omitted.
type OfferQuery struct {
	Location     string
	MaterialType string
	CompanyType  string
	CompanyID    int64
}

// NewOffer is the payload for creating a listing. ImagePath, when set, is a
// local file uploaded as the listing image.
type NewOffer struct {
	MaterialType      string  `validate:"required"`
	Quantity          float64 `validate:"required,gt=0"`
	MaterialCondition string  `validate:"required,oneof=new used mixed"`
	Price             float64 `validate:"gte=0"`
	Location          string  `validate:"required"`
	ImagePath         string
}

// List fetches offers matching the query. Unauthenticated: the offer board
// is public.
func (s *OfferService) List(ctx context.Context, q OfferQuery) ([]Offer, error) {
	params := url.Values{}
	if q.Location != "" {
		params.Set("location", q.Location)
	}
	if q.MaterialType != "" {
		params.Set("material_type", q.MaterialType)
	}
	if q.CompanyType != "" {
		params.Set("company_type", q.CompanyType)
	}
	if q.CompanyID > 0 {
		params.Set("company_id", strconv.FormatInt(q.CompanyID, 10))
	}
	var offers []Offer
	if err := s.client.do(ctx, http.MethodGet, "/offers", params, nil, &offers, false); err != nil {
		return nil, err
	}
	return offers, nil
}

// Create posts a new listing as multipart form data. A 403 means the account
// has no active subscription and maps to ErrSubscriptionRequired.
func (s *OfferService) Create(ctx context.Context, companyID int64, offer NewOffer) error {
	if err := validate.Struct(offer); err != nil {
		return err
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := writeOfferForm(mw, companyID, offer)
		if cerr := mw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	err := s.client.doRaw(ctx, http.MethodPost, "/offers", nil, pr, mw.FormDataContentType(), nil, true)
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden {
		return fmt.Errorf("create offer: %w", ErrSubscriptionRequired)
	}
	return err
}

// Update edits an existing listing's fields.
func (s *OfferService) Update(ctx context.Context, offer *Offer) error {
	return s.client.do(ctx, http.MethodPut, fmt.Sprintf("/offers/%d", offer.ID), nil, offer, nil, true)
}

// Delete removes a listing owned by the authenticated company.
func (s *OfferService) Delete(ctx context.Context, id int64) error {
	return s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/offers/%d", id), nil, nil, nil, true)
}

func writeOfferForm(mw *multipart.Writer, companyID int64, offer NewOffer) error {
	fields := map[string]string{
		"company_id":         strconv.FormatInt(companyID, 10),
		"material_type":      offer.MaterialType,
		"quantity":           strconv.FormatFloat(offer.Quantity, 'f', -1, 64),
		"material_condition": offer.MaterialCondition,
		"price":              strconv.FormatFloat(offer.Price, 'f', -1, 64),
		"location":           offer.Location,
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	if offer.ImagePath == "" {
		return nil
	}
	f, err := os.Open(offer.ImagePath)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()
	part, err := mw.CreateFormFile("image_url_1", filepath.Base(offer.ImagePath))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}

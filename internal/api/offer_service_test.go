package api

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfferListQueryParams(t *testing.T) {
	var gotQuery map[string][]string
	c, _, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`[{"offer_id":1,"company_id":2,"material_type":"cotton","quantity":50,"material_condition":"used","price":120,"location":"Casablanca"}]`))
	}))

	offers, err := NewOfferService(c).List(context.Background(), OfferQuery{
		Location:     "Casablanca",
		MaterialType: "cotton",
		CompanyType:  "producer",
	})
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "cotton", offers[0].MaterialType)
	assert.Equal(t, []string{"Casablanca"}, gotQuery["location"])
	assert.Equal(t, []string{"cotton"}, gotQuery["material_type"])
	assert.Equal(t, []string{"producer"}, gotQuery["company_type"])
	assert.NotContains(t, gotQuery, "company_id")
}

func TestOfferCreateMultipart(t *testing.T) {
	img := filepath.Join(t.TempDir(), "bale.jpg")
	require.NoError(t, os.WriteFile(img, []byte("jpeg-bytes"), 0600))

	var gotFields map[string]string
	var gotFile string
	c, _, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotFields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotFields[k] = v[0]
		}
		if fhs := r.MultipartForm.File["image_url_1"]; len(fhs) > 0 {
			gotFile = fhs[0].Filename
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"offer created"}`))
	}))

	err := NewOfferService(c).Create(context.Background(), 7, NewOffer{
		MaterialType:      "denim",
		Quantity:          140,
		MaterialCondition: "used",
		Price:             300,
		Location:          "Tangier",
		ImagePath:         img,
	})
	require.NoError(t, err)
	assert.Equal(t, "7", gotFields["company_id"])
	assert.Equal(t, "denim", gotFields["material_type"])
	assert.Equal(t, "140", gotFields["quantity"])
	assert.Equal(t, "bale.jpg", gotFile)
}

func TestOfferCreateSubscriptionGate(t *testing.T) {
	c, _, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"subscription required"}`, http.StatusForbidden)
	}))

	err := NewOfferService(c).Create(context.Background(), 7, NewOffer{
		MaterialType:      "wool",
		Quantity:          10,
		MaterialCondition: "new",
		Location:          "Fes",
	})
	require.ErrorIs(t, err, ErrSubscriptionRequired)
}

func TestOfferCreateValidation(t *testing.T) {
	c, _, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("invalid offer must not reach the server")
	}))

	err := NewOfferService(c).Create(context.Background(), 7, NewOffer{
		MaterialType:      "",
		Quantity:          0,
		MaterialCondition: "pristine",
	})
	require.Error(t, err)
}

func TestMarkMessageNotificationReadPath(t *testing.T) {
	var gotPath, gotMethod string
	c, _, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, NewNotificationService(c).MarkMessageNotificationRead(context.Background(), 42))
	assert.Equal(t, "/message-notifications/42/read", gotPath)
	assert.Equal(t, http.MethodPut, gotMethod)
}

func TestSubscriptionStatus(t *testing.T) {
	c, _, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/subscription-status", r.URL.Path)
		_, _ = w.Write([]byte(`{"is_subscribed":true}`))
	}))

	ok, err := NewSubscriptionService(c).Status(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

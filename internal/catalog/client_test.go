package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/vitrineshop/mobile-cart/pkg/errors"
)

func TestNewClientRequiresBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient("")
	require.Error(t, err)
}

func TestGetByIDDecodesEnvelope(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products/42", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`{
			"data": {
				"id": 42,
				"name": "Linen Shirt",
				"sku": "SH-42",
				"sellingPrice": "150",
				"promotionalPrice": "100",
				"currentPrice": "150"
			}
		}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	product, err := client.GetByID(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, int64(42), product.ID)
	assert.Equal(t, "Linen Shirt", product.Name)
	require.NotNil(t, product.PromotionalPrice)
	assert.True(t, product.PromotionalPrice.Equal(decimal.NewFromInt(100)))
	assert.True(t, product.UnitPrice().Equal(decimal.NewFromInt(100)))
}

func TestGetByIDRejectsInvalidID(t *testing.T) {
	t.Parallel()

	client, err := NewClient("http://localhost")
	require.NoError(t, err)

	_, err = client.GetByID(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestGetByIDNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.GetByID(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeProductNotFound))
}

func TestGetByIDNilDataIsNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": null}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.GetByID(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeProductNotFound))
}

func TestGetByIDServerErrorIsNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.GetByID(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNetwork))
	assert.Contains(t, err.Error(), "status 500")
}

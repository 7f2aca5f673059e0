package coupons

import (
	"context"
	"encoding/json"
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

func TestValidateSendsCodeAndOrderValue(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/coupons/validate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			Code       string          `json:"code"`
			OrderValue decimal.Decimal `json:"orderValue"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "SAVE10", body.Code)
		assert.True(t, body.OrderValue.Equal(decimal.NewFromInt(300)))

		_, _ = w.Write([]byte(`{"data": {"isValid": true, "discountAmount": "30"}}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	result, err := client.Validate(context.Background(), "SAVE10", decimal.NewFromInt(300))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsValid)
	assert.True(t, result.DiscountAmount.Equal(decimal.NewFromInt(30)))
}

func TestValidateCarriesRejectionMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"isValid": false, "discountAmount": "0", "message": "coupon expired"}}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	result, err := client.Validate(context.Background(), "EXPIRED", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsValid)
	assert.Equal(t, "coupon expired", result.Message)
}

func TestValidateRejectsBlankCode(t *testing.T) {
	t.Parallel()

	client, err := NewClient("http://localhost")
	require.NoError(t, err)

	_, err = client.Validate(context.Background(), "   ", decimal.NewFromInt(100))
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestValidateNilDataIsNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": null}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.Validate(context.Background(), "SAVE10", decimal.NewFromInt(100))
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNetwork))
}

func TestValidateServerErrorIsNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.Validate(context.Background(), "SAVE10", decimal.NewFromInt(100))
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNetwork))
}

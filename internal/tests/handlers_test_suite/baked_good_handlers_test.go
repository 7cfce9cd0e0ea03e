package handlers_test_suite

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/rogerio-castellano/bakery-api/internal/http"
	handler "github.com/rogerio-castellano/bakery-api/internal/http/handlers"
	"github.com/rogerio-castellano/bakery-api/internal/models"
	"github.com/rogerio-castellano/bakery-api/internal/repo"
)

// failingBakedGoodRepo fails every insert and delegates the rest.
type failingBakedGoodRepo struct {
	*repo.InMemoryBakedGoodRepository
}

func (failingBakedGoodRepo) Create(context.Context, models.BakedGood) (models.BakedGood, error) {
	return models.BakedGood{}, errors.New("insert baked good: database is locked")
}

func TestCreateBakedGoodHandler(t *testing.T) {
	r := api.NewRouter()

	t.Run("Valid form", func(t *testing.T) {
		t.Cleanup(clearAll)
		b := createBakery(t, "Delightful donuts")

		w := sendForm(r, http.MethodPost, "/baked_goods", bakedGoodForm("Glazed donut", "1.75", b.ID))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp handler.BakedGoodResponse
		decode(t, w, &resp)
		assert.NotZero(t, resp.ID)
		assert.Equal(t, "Glazed donut", resp.Name)
		assert.Equal(t, 1.75, resp.Price)
		assert.Equal(t, b.ID, resp.BakeryID)
		assert.False(t, resp.CreatedAt.IsZero())
		assert.True(t, resp.CreatedAt.Equal(resp.UpdatedAt))
	})

	t.Run("Multipart form", func(t *testing.T) {
		t.Cleanup(clearAll)
		b := createBakery(t, "Delightful donuts")

		body, contentType := multipartFields(map[string]string{
			"name": "Jelly donut", "price": "2.10", "bakery_id": fmt.Sprint(b.ID),
		})
		req := httptest.NewRequest(http.MethodPost, "/baked_goods", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	tests := []struct {
		name      string
		form      url.Values
		wantError string
		wantField string
	}{
		{
			name:      "Missing name",
			form:      url.Values{"price": {"1"}, "bakery_id": {"1"}},
			wantError: "Missing required fields",
			wantField: "name",
		},
		{
			name:      "Missing everything",
			form:      url.Values{},
			wantError: "Missing required fields",
			wantField: "name",
		},
		{
			name:      "Missing price wins over bad bakery_id",
			form:      url.Values{"name": {"Roll"}, "bakery_id": {"abc"}},
			wantError: "Missing required fields",
			wantField: "price",
		},
		{
			name:      "Non numeric price",
			form:      url.Values{"name": {"Roll"}, "price": {"cheap"}, "bakery_id": {"1"}},
			wantError: "Invalid data type for price or bakery_id",
			wantField: "price",
		},
		{
			name:      "Non integer bakery_id",
			form:      url.Values{"name": {"Roll"}, "price": {"1"}, "bakery_id": {"one"}},
			wantError: "Invalid data type for price or bakery_id",
			wantField: "bakery_id",
		},
		{
			name:      "Unknown bakery",
			form:      url.Values{"name": {"Roll"}, "price": {"1"}, "bakery_id": {"4242"}},
			wantError: "Bakery not found",
			wantField: "bakery_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(clearAll)

			w := sendForm(r, http.MethodPost, "/baked_goods", tt.form)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var errResp handler.ErrorResponse
			decode(t, w, &errResp)
			assert.Equal(t, tt.wantError, errResp.Error)
			require.NotEmpty(t, errResp.Fields)
			assert.Equal(t, tt.wantField, errResp.Fields[0].Field)

			all := get(r, "/baked_goods")
			assert.JSONEq(t, "[]", all.Body.String())
		})
	}
}

func TestCreateBakedGoodStoreFailure(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()
	b := createBakery(t, "Delightful donuts")

	handler.SetBakedGoodRepo(failingBakedGoodRepo{bakedGoodRepo})
	t.Cleanup(func() { handler.SetBakedGoodRepo(bakedGoodRepo) })

	w := sendForm(r, http.MethodPost, "/baked_goods", bakedGoodForm("Glazed donut", "1.75", b.ID))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"could not create baked good"}`, w.Body.String())

	goods, err := bakedGoodRepo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, goods)
}

func TestGetBakedGoodsHandler(t *testing.T) {
	r := api.NewRouter()
	t.Cleanup(clearAll)

	w := get(r, "/baked_goods")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	b := createBakery(t, "Incredible crullers")
	first := createBakedGood(t, r, "Plain cruller", "1.95", b.ID)
	second := createBakedGood(t, r, "Crème brûlée cruller", "4.25", b.ID)

	w = get(r, "/baked_goods")
	require.Equal(t, http.StatusOK, w.Code)

	var goods []handler.BakedGoodResponse
	decode(t, w, &goods)
	require.Len(t, goods, 2)
	assert.Equal(t, first.ID, goods[0].ID)
	assert.Equal(t, second.ID, goods[1].ID)
}

func TestGetBakedGoodByIDHandler(t *testing.T) {
	r := api.NewRouter()
	t.Cleanup(clearAll)

	b := createBakery(t, "Incredible crullers")
	created := createBakedGood(t, r, "Plain cruller", "1.95", b.ID)

	w := get(r, fmt.Sprintf("/baked_goods/%d", created.ID))
	require.Equal(t, http.StatusOK, w.Code)
	var resp handler.BakedGoodResponse
	decode(t, w, &resp)
	assert.Equal(t, created.ID, resp.ID)
	assert.Equal(t, "Plain cruller", resp.Name)

	w = get(r, fmt.Sprintf("/baked_goods/%d", created.ID+100))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetBakedGoodsByPriceHandler(t *testing.T) {
	r := api.NewRouter()
	t.Cleanup(clearAll)

	b := createBakery(t, "Sunrise bread co.")
	cheap := createBakedGood(t, r, "Bread roll", "0.80", b.ID)
	tieA := createBakedGood(t, r, "Croissant", "2.80", b.ID)
	pricey := createBakedGood(t, r, "Sourdough loaf", "6.00", b.ID)
	tieB := createBakedGood(t, r, "Pain au chocolat", "2.80", b.ID)

	w := get(r, "/baked_goods/by_price")
	require.Equal(t, http.StatusOK, w.Code)

	var goods []handler.BakedGoodResponse
	decode(t, w, &goods)
	require.Len(t, goods, 4)

	ids := []int{goods[0].ID, goods[1].ID, goods[2].ID, goods[3].ID}
	assert.Equal(t, []int{pricey.ID, tieA.ID, tieB.ID, cheap.ID}, ids)
}

func TestGetMostExpensiveBakedGoodHandler(t *testing.T) {
	r := api.NewRouter()
	t.Cleanup(clearAll)

	w := get(r, "/baked_goods/most_expensive")
	require.Equal(t, http.StatusNotFound, w.Code)
	var errResp handler.ErrorResponse
	decode(t, w, &errResp)
	assert.Equal(t, "No baked goods found", errResp.Error)

	b := createBakery(t, "Sunrise bread co.")
	first := createBakedGood(t, r, "Sourdough loaf", "6.00", b.ID)
	createBakedGood(t, r, "Rye loaf", "6.00", b.ID)
	createBakedGood(t, r, "Bread roll", "0.80", b.ID)

	w = get(r, "/baked_goods/most_expensive")
	require.Equal(t, http.StatusOK, w.Code)
	var resp handler.BakedGoodResponse
	decode(t, w, &resp)
	assert.Equal(t, first.ID, resp.ID)
	assert.Equal(t, 6.0, resp.Price)
}

func TestDeleteBakedGoodHandler(t *testing.T) {
	r := api.NewRouter()
	t.Cleanup(clearAll)

	b := createBakery(t, "Delightful donuts")
	created := createBakedGood(t, r, "Glazed donut", "1.75", b.ID)
	path := fmt.Sprintf("/baked_goods/%d", created.ID)

	req := httptest.NewRequest(http.MethodDelete, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Baked good deleted successfully"}`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, get(r, path).Code)

	req = httptest.NewRequest(http.MethodDelete, path, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Baked good not found"}`, w.Body.String())

	w = get(r, fmt.Sprintf("/bakeries/%d", b.ID))
	var bakery handler.BakeryResponse
	decode(t, w, &bakery)
	assert.Empty(t, bakery.BakedGoods)
}

package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"concesionaria-api/models"
	"concesionaria-api/services"
	"concesionaria-api/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockCarLifecycle struct {
	mock.Mock
}

func (m *mockCarLifecycle) List(ctx context.Context, filter models.CarFilter) ([]models.CarView, error) {
	args := m.Called(filter)
	cars, _ := args.Get(0).([]models.CarView)
	return cars, args.Error(1)
}

func (m *mockCarLifecycle) Get(ctx context.Context, id uint) (*models.CarView, error) {
	args := m.Called(id)
	car, _ := args.Get(0).(*models.CarView)
	return car, args.Error(1)
}

func (m *mockCarLifecycle) Create(ctx context.Context, req models.CreateCarRequest) (*models.CarView, error) {
	args := m.Called(req)
	car, _ := args.Get(0).(*models.CarView)
	return car, args.Error(1)
}

func (m *mockCarLifecycle) Update(ctx context.Context, id uint, req models.UpdateCarRequest) (*models.CarView, error) {
	args := m.Called(id, req)
	car, _ := args.Get(0).(*models.CarView)
	return car, args.Error(1)
}

func (m *mockCarLifecycle) Delete(ctx context.Context, id uint) error {
	return m.Called(id).Error(0)
}

func newCarRouter(cars CarLifecycle) *gin.Engine {
	cc := NewCarController(cars, zap.NewNop())
	r := gin.New()
	r.GET("/cars", cc.GetCars)
	r.GET("/cars/:id", cc.GetCar)
	r.POST("/cars", cc.CreateCar)
	r.PATCH("/cars/:id", cc.UpdateCar)
	r.DELETE("/cars/:id", cc.DeleteCar)
	return r
}

func doRequest(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetCars_ParsesFilters(t *testing.T) {
	cars := new(mockCarLifecycle)
	year := 2022
	cars.On("List", models.CarFilter{Code: "ford-ranger", Brand: "for", Year: &year, Offset: 2, Limit: 5}).
		Return([]models.CarView{{ID: 3, CarCode: "ford-ranger"}}, nil)

	w := doRequest(newCarRouter(cars), http.MethodGet, "/cars?car_code=ford-ranger&brand=for&year=2022&offset=2&limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Total  int              `json:"total"`
		Offset int              `json:"offset"`
		Limit  int              `json:"limit"`
		Items  []models.CarView `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, 2, body.Offset)
	assert.Equal(t, 5, body.Limit)
	assert.Equal(t, "ford-ranger", body.Items[0].CarCode)
	cars.AssertExpectations(t)
}

func TestGetCars_DefaultsAndBounds(t *testing.T) {
	cars := new(mockCarLifecycle)
	cars.On("List", models.CarFilter{Limit: 100}).Return([]models.CarView{}, nil)
	r := newCarRouter(cars)

	w := doRequest(r, http.MethodGet, "/cars", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":0,"offset":0,"limit":100,"items":[]}`, w.Body.String())

	for _, q := range []string{"limit=0", "limit=1001", "offset=-1", "year=abc", "limit=x"} {
		w := doRequest(r, http.MethodGet, "/cars?"+q, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
	cars.AssertNumberOfCalls(t, "List", 1)
}

func TestCarEndpoints_ErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: year must be >= 1886", services.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("%w: status code 404", services.ErrImageFetch), http.StatusBadRequest},
		{fmt.Errorf("%w: id 9", services.ErrCarNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: \"ford-ranger\"", services.ErrCarConflict), http.StatusConflict},
		{fmt.Errorf("%w: bad header", services.ErrUnprocessableImage), http.StatusUnprocessableEntity},
		{fmt.Errorf("disk full"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		cars := new(mockCarLifecycle)
		cars.On("Create", mock.Anything).Return(nil, tc.err)

		w := doRequest(newCarRouter(cars), http.MethodPost, "/cars", `{"brand":"Ford","model":"Ranger"}`)
		assert.Equal(t, tc.status, w.Code, tc.err.Error())

		var body utils.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tc.status, body.Code)
		if tc.status == http.StatusInternalServerError {
			assert.NotContains(t, body.Message, "disk full")
		}
	}
}

func TestCreateCar(t *testing.T) {
	cars := new(mockCarLifecycle)
	cars.On("Create", mock.MatchedBy(func(req models.CreateCarRequest) bool {
		return req.Brand == "Ford" && req.Km != nil && *req.Km == 0
	})).Return(&models.CarView{ID: 1, CarCode: "ford-ranger"}, nil)

	w := doRequest(newCarRouter(cars), http.MethodPost, "/cars",
		`{"brand":"Ford","model":"Ranger","description":"0km","price":1,"km":0,"year":2024}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"car_code":"ford-ranger"`)

	w = doRequest(newCarRouter(cars), http.MethodPost, "/cars", `{"brand":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUpdateDeleteCar(t *testing.T) {
	cars := new(mockCarLifecycle)
	price := 30000.0
	cars.On("Get", uint(4)).Return(&models.CarView{ID: 4}, nil)
	cars.On("Update", uint(4), models.UpdateCarRequest{Price: &price}).Return(&models.CarView{ID: 4, Price: price}, nil)
	cars.On("Delete", uint(4)).Return(nil)
	r := newCarRouter(cars)

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/cars/4", "").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(r, http.MethodGet, "/cars/abc", "").Code)

	w := doRequest(r, http.MethodPatch, "/cars/4", `{"price":30000}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"price":30000`)

	w = doRequest(r, http.MethodDelete, "/cars/4", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	cars.AssertExpectations(t)
}

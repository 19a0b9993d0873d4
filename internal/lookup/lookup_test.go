package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// mockServer returns an httptest server that always answers with the given
// status and JSON body.
func mockServer(t *testing.T, status int, body interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

/* ─── Weather client ─────────────────────────────────────────────────── */

func TestCityTemperature_Success(t *testing.T) {
	srv := mockServer(t, http.StatusOK, map[string]interface{}{
		"main": map[string]interface{}{"temp": 27.4},
	})

	c := NewWeatherClient("test-key", srv.URL)
	temp, err := c.CityTemperature(context.Background(), "Lisbon")
	if err != nil {
		t.Fatalf("CityTemperature: %v", err)
	}
	if temp != 27.4 {
		t.Errorf("temp = %v, want 27.4", temp)
	}
}

func TestCityTemperature_Non200(t *testing.T) {
	srv := mockServer(t, http.StatusNotFound, map[string]string{"message": "city not found"})

	c := NewWeatherClient("test-key", srv.URL)
	if _, err := c.CityTemperature(context.Background(), "Nowhere"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestCityTemperature_MissingField(t *testing.T) {
	srv := mockServer(t, http.StatusOK, map[string]interface{}{"main": map[string]interface{}{}})

	c := NewWeatherClient("test-key", srv.URL)
	if _, err := c.CityTemperature(context.Background(), "Lisbon"); err == nil {
		t.Fatal("expected error when temperature field is missing")
	}
}

/* ─── Food client ────────────────────────────────────────────────────── */

func TestFoodSearch_FirstUsableProduct(t *testing.T) {
	// The first product lacks an energy value and must be skipped.
	srv := mockServer(t, http.StatusOK, map[string]interface{}{
		"products": []map[string]interface{}{
			{"product_name": "Mystery Bar", "nutriments": map[string]interface{}{}},
			{"product_name": "Dark Chocolate", "nutriments": map[string]interface{}{"energy-kcal_100g": 546.0}},
		},
	})

	c := NewFoodClient(srv.URL)
	food, err := c.Search(context.Background(), "chocolate")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if food.Name != "Dark Chocolate" || food.KcalPer100g != 546 {
		t.Errorf("Search = %+v, want Dark Chocolate / 546", food)
	}
}

func TestFoodSearch_StringEnergyValue(t *testing.T) {
	srv := mockServer(t, http.StatusOK, map[string]interface{}{
		"products": []map[string]interface{}{
			{"product_name": "Oat Milk", "nutriments": map[string]interface{}{"energy-kcal_100g": "46"}},
		},
	})

	c := NewFoodClient(srv.URL)
	food, err := c.Search(context.Background(), "oat milk")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if food.KcalPer100g != 46 {
		t.Errorf("KcalPer100g = %v, want 46", food.KcalPer100g)
	}
}

func TestFoodSearch_NoUsableProduct(t *testing.T) {
	srv := mockServer(t, http.StatusOK, map[string]interface{}{
		"products": []map[string]interface{}{},
	})

	c := NewFoodClient(srv.URL)
	if _, err := c.Search(context.Background(), "nonexistent"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFoodSearch_ServerError(t *testing.T) {
	srv := mockServer(t, http.StatusInternalServerError, map[string]string{"error": "down"})

	c := NewFoodClient(srv.URL)
	_, err := c.Search(context.Background(), "bread")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want a transport error distinct from ErrNotFound", err)
	}
}

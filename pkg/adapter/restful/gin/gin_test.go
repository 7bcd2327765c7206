// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/momeni/fuelfinder/internal/test/sqlitedb"
	"github.com/momeni/fuelfinder/pkg/adapter/config/cfg1"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/tables"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/routes"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/momeni/fuelfinder/pkg/core/usecase/appuc"
	"github.com/stretchr/testify/suite"
)

const (
	password = "Secret123"
	settings = `
database:
  name: fuelfinder
auth:
  jwt-secret: 0123456789abcdef0123456789abcdef
usecases:
  pagination:
    default-page-size: 2
versions:
  config: 1.0.0
`
)

type IntegrationGinTestSuite struct {
	suite.Suite

	Ctx  context.Context
	Pool *postgres.Pool
	Gin  *gin.Engine
}

func TestIntegrationGinTestSuite(t *testing.T) {
	gin.SetMode("test")
	suite.Run(t, &IntegrationGinTestSuite{Ctx: context.Background()})
}

func (igts *IntegrationGinTestSuite) SetupTest() {
	t := igts.T()
	t.Setenv(cfg1.EnvDatabaseURL, "")
	t.Setenv(cfg1.EnvJWTSecret, "")
	c, err := cfg1.Load([]byte(settings))
	igts.Require().NoError(err, "failed to load settings")
	igts.Pool = sqlitedb.New(igts.Ctx, t)
	app, err := appuc.New(igts.Pool, routes.NewRepos(), c)
	igts.Require().NoError(err, "failed to create use cases")
	igts.Gin = gin.New()
	err = routes.Register(igts.Gin, app)
	igts.Require().NoError(err, "failed to register routes")
}

func urlEncoded(m map[string]string) io.Reader {
	v := url.Values{}
	for key, val := range m {
		v.Set(key, val)
	}
	return strings.NewReader(v.Encode())
}

func (igts *IntegrationGinTestSuite) sendReqRecvResp(
	w *httptest.ResponseRecorder, req *http.Request, res any,
) {
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	igts.Gin.ServeHTTP(w, req)
	b := w.Body.Bytes()
	igts.NoError(json.Unmarshal(b, res), "body is not json")
}

// call sends body as JSON (if not nil) with the bearer token (if not
// empty) and decodes the response into res (if not nil). It returns
// the response status code.
func (igts *IntegrationGinTestSuite) call(
	method, path, token string, body, res any,
) int {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		igts.Require().NoError(err, "cannot marshal request body")
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, "/api/v1"+path, r)
	igts.Require().NoError(err, "cannot create %s request", method)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	igts.Gin.ServeHTTP(w, req)
	if res != nil {
		igts.NoError(
			json.Unmarshal(w.Body.Bytes(), res),
			"body is not json: %s", w.Body.String(),
		)
	}
	return w.Code
}

type detail struct {
	Detail string `json:"detail"`
}

type user struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	EmailConfirmed *bool  `json:"emailConfirmed"`
	Role           string `json:"role"`
	Status         string `json:"status"`
}

type entity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type price struct {
	ID        int64   `json:"id"`
	StationID int64   `json:"stationId"`
	FuelType  entity  `json:"fuelType"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
	Status    string  `json:"status"`
}

type station struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Chain    *entity  `json:"chain"`
	Distance *float64 `json:"distance"`
	Price    *price   `json:"price"`
}

type review struct {
	StationID int64  `json:"stationId"`
	Username  string `json:"username"`
	Rate      int    `json:"rate"`
}

type page[T any] struct {
	Data          []T   `json:"data"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	NextPage      *int  `json:"nextPage"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
}

// signUp registers username using a url-encoded form, optionally
// promotes it to role, and returns a bearer token of that account.
func (igts *IntegrationGinTestSuite) signUp(username string, role model.Role) string {
	w := httptest.NewRecorder()
	req, err := http.NewRequest(
		http.MethodPost, "/api/v1/accounts/register",
		urlEncoded(map[string]string{
			"username":       username,
			"email":          username + "@example.com",
			"password":       password,
			"passwordRepeat": password,
		}),
	)
	igts.Require().NoError(err, "cannot create POST request")
	res := &user{}
	igts.sendReqRecvResp(w, req, res)
	igts.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	igts.Equal(username, res.Username)
	igts.Equal(string(model.RoleUser), res.Role)

	if role != model.RoleUser {
		err = igts.Pool.DB.WithContext(igts.Ctx).Model(&tables.User{}).
			Where("username = ?", username).
			Update("role", string(role)).Error
		igts.Require().NoError(err, "cannot promote %q", username)
	}
	login := &struct {
		Token string `json:"token"`
		User  user   `json:"user"`
	}{}
	code := igts.call(http.MethodPost, "/accounts/login", "", map[string]string{
		"username": username, "password": password,
	}, login)
	igts.Require().Equal(http.StatusOK, code)
	igts.Require().NotEmpty(login.Token)
	igts.Equal(string(role), login.User.Role)
	return login.Token
}

func (igts *IntegrationGinTestSuite) TestAccounts() {
	token := igts.signUp("sara", model.RoleUser)

	me := &user{}
	igts.Equal(http.StatusOK, igts.call(http.MethodGet, "/users/me", token, nil, me))
	igts.Equal("sara", me.Username)
	igts.Equal("sara@example.com", me.Email)
	igts.Require().NotNil(me.EmailConfirmed)
	igts.False(*me.EmailConfirmed)

	other := &user{}
	igts.Equal(http.StatusOK, igts.call(http.MethodGet, "/users/sara", "", nil, other))
	igts.Empty(other.Email, "e-mail must be hidden from others")

	d := &detail{}
	igts.Equal(http.StatusUnauthorized, igts.call(http.MethodGet, "/users/me", "", nil, d))
	igts.Equal("bearer token is required", d.Detail)
	igts.Equal(
		http.StatusUnauthorized,
		igts.call(http.MethodGet, "/users/me", "not-a-jwt", nil, nil),
	)
	igts.Equal(
		http.StatusUnauthorized,
		igts.call(http.MethodGet, "/users/sara", "not-a-jwt", nil, nil),
		"invalid tokens are rejected on optional routes too",
	)
	igts.Equal(http.StatusUnauthorized, igts.call(
		http.MethodPost, "/accounts/login", "",
		map[string]string{"username": "sara", "password": "Wrong1234"}, nil,
	))

	igts.Equal(http.StatusNoContent, igts.call(
		http.MethodPost, "/accounts/change-password", token,
		map[string]string{"oldPassword": password, "newPassword": "Secret456"}, nil,
	))
	igts.Equal(http.StatusOK, igts.call(
		http.MethodPost, "/accounts/login", "",
		map[string]string{"username": "sara", "password": "Secret456"}, nil,
	))
}

func (igts *IntegrationGinTestSuite) TestBadRequest() {
	for _, tc := range []struct {
		name   string
		body   map[string]string
		field  string
		reason string
	}{
		{
			name:   "missing email",
			body:   map[string]string{"username": "sara", "password": password},
			field:  "email",
			reason: "REQUIRED",
		},
		{
			name: "bad email",
			body: map[string]string{
				"username": "sara", "email": "sara", "password": password,
			},
			field:  "email",
			reason: "INVALID_EMAIL",
		},
		{
			name: "short username",
			body: map[string]string{
				"username": "sa", "email": "sa@example.com", "password": password,
			},
			field:  "username",
			reason: "TOO_SHORT",
		},
		{
			name: "weak password",
			body: map[string]string{
				"username": "sara", "email": "sara@example.com", "password": "secret123",
			},
			field:  "password",
			reason: "NO_UPPERCASE",
		},
		{
			name: "repeat mismatch",
			body: map[string]string{
				"username": "sara", "email": "sara@example.com",
				"password": password, "passwordRepeat": "Secret124",
			},
			field:  "passwordRepeat",
			reason: "REPEAT_NO_MATCH",
		},
	} {
		igts.Run(tc.name, func() {
			res := map[string][]string{}
			code := igts.call(http.MethodPost, "/accounts/register", "", tc.body, &res)
			igts.Equal(http.StatusBadRequest, code)
			igts.Equal([]string{tc.reason}, res[tc.field], "%v", res)
		})
	}

	for _, tc := range []struct {
		name, path, field string
	}{
		{"lat without lon", "/fuel-stations?lat=35.7", "lat/lon"},
		{"distance without centre", "/fuel-stations?distance=5", "distance"},
		{"radius too large", "/fuel-stations?lat=35.7&lon=51.4&distance=500", "distance"},
		{"non-numeric id", "/fuel-stations/abc", "id"},
		{"sort direction", "/fuel-stations?sortDirection=up", "sortDirection"},
	} {
		igts.Run(tc.name, func() {
			res := map[string][]string{}
			code := igts.call(http.MethodGet, tc.path, "", nil, &res)
			igts.Equal(http.StatusBadRequest, code)
			igts.Contains(res, tc.field)
		})
	}
}

func (igts *IntegrationGinTestSuite) TestNotFound() {
	admin := igts.signUp("admin", model.RoleAdmin)
	for _, tc := range []struct {
		method, path, token string
		body                any
	}{
		{http.MethodGet, "/fuel-stations/999", "", nil},
		{http.MethodGet, "/fuel-stations/999/fuel-prices", "", nil},
		{http.MethodGet, "/fuel-stations/999/rating", "", nil},
		{http.MethodGet, "/fuel-types/999", "", nil},
		{http.MethodGet, "/users/nobody", "", nil},
		{http.MethodDelete, "/fuel-stations/999", admin, nil},
		{http.MethodPut, "/fuel-prices/999/status", admin, map[string]string{"status": "ACCEPTED"}},
		{http.MethodPost, "/favorites/999", admin, nil},
	} {
		igts.Run(tc.method+" "+tc.path, func() {
			d := &detail{}
			code := igts.call(tc.method, tc.path, tc.token, tc.body, d)
			igts.Equal(http.StatusNotFound, code)
			igts.NotEmpty(d.Detail)
		})
	}
}

func (igts *IntegrationGinTestSuite) TestStationLifecycle() {
	admin := igts.signUp("admin", model.RoleAdmin)
	sara := igts.signUp("sara", model.RoleUser)
	owner := igts.signUp("omid", model.RoleUser)

	gas := &entity{}
	igts.Equal(http.StatusForbidden, igts.call(
		http.MethodPost, "/fuel-types", sara, map[string]string{"name": "Gasoline"}, nil,
	))
	igts.Require().Equal(http.StatusCreated, igts.call(
		http.MethodPost, "/fuel-types", admin, map[string]string{"name": "Gasoline"}, gas,
	))
	igts.Equal(http.StatusConflict, igts.call(
		http.MethodPost, "/fuel-types", admin, map[string]string{"name": "Gasoline"}, nil,
	))
	chain := &entity{}
	igts.Require().Equal(http.StatusCreated, igts.call(
		http.MethodPost, "/station-chains", admin, map[string]string{"name": "Shell"}, chain,
	))

	st := &station{}
	body := map[string]any{
		"name":    "Azadi",
		"chainId": chain.ID,
		"address": map[string]string{
			"street": "Azadi", "streetNumber": "1",
			"city": "Tehran", "postalCode": "12345",
		},
		"coordinates": map[string]float64{"latitude": 35.70, "longitude": 51.34},
	}
	igts.Equal(http.StatusForbidden, igts.call(http.MethodPost, "/fuel-stations", sara, body, nil))
	igts.Require().Equal(http.StatusCreated, igts.call(http.MethodPost, "/fuel-stations", admin, body, st))
	igts.Require().NotNil(st.Chain)
	igts.Equal("Shell", st.Chain.Name)
	path := fmt.Sprintf("/fuel-stations/%d", st.ID)

	fts := []entity{}
	igts.Require().Equal(http.StatusOK, igts.call(
		http.MethodPut, path+"/fuel-types", admin, map[string][]int64{"ids": {gas.ID}}, &fts,
	))
	igts.Equal([]entity{*gas}, fts)

	igts.Equal(http.StatusNoContent, igts.call(
		http.MethodPost, path+"/owners", admin, map[string]string{"username": "omid"}, nil,
	))
	owned := &page[station]{}
	igts.Equal(http.StatusOK, igts.call(http.MethodGet, "/fuel-stations/owned", owner, nil, owned))
	igts.Equal(int64(1), owned.TotalElements)

	reported := []price{}
	igts.Require().Equal(http.StatusCreated, igts.call(
		http.MethodPost, path+"/fuel-prices", sara,
		map[string]any{"prices": []map[string]any{{"fuelTypeId": gas.ID, "price": 1.55}}},
		&reported,
	))
	igts.Require().Len(reported, 1)
	igts.Equal("PENDING", reported[0].Status)
	igts.True(reported[0].Available)
	igts.Equal(http.StatusCreated, igts.call(
		http.MethodPost, path+"/fuel-prices", owner,
		map[string]any{"prices": []map[string]any{{"fuelTypeId": gas.ID, "price": 1.5}}},
		nil,
	))

	pending := &page[price]{}
	igts.Equal(http.StatusForbidden, igts.call(http.MethodGet, "/fuel-prices/pending", sara, nil, nil))
	igts.Require().Equal(http.StatusOK, igts.call(http.MethodGet, "/fuel-prices/pending", admin, nil, pending))
	igts.Require().Len(pending.Data, 1)
	igts.Equal(reported[0].ID, pending.Data[0].ID)
	igts.Equal(http.StatusOK, igts.call(
		http.MethodPut, fmt.Sprintf("/fuel-prices/%d/status", reported[0].ID), admin,
		map[string]string{"status": "REJECTED"}, nil,
	))

	cur := []price{}
	igts.Require().Equal(http.StatusOK, igts.call(http.MethodGet, path+"/fuel-prices", "", nil, &cur))
	igts.Require().Len(cur, 1)
	igts.Equal(1.5, cur[0].Price)

	found := &page[station]{}
	igts.Require().Equal(http.StatusOK, igts.call(
		http.MethodGet,
		fmt.Sprintf("/fuel-stations?lat=35.71&lon=51.34&fuelTypeId=%d", gas.ID),
		"", nil, found,
	))
	igts.Require().Len(found.Data, 1)
	igts.Require().NotNil(found.Data[0].Distance)
	igts.InDelta(1.11, *found.Data[0].Distance, 0.05)
	igts.Require().NotNil(found.Data[0].Price)
	igts.Equal(1.5, found.Data[0].Price.Price)

	igts.Equal(http.StatusCreated, igts.call(
		http.MethodPost, path+"/reviews", sara,
		map[string]any{"content": "clean", "rate": 4}, nil,
	))
	igts.Equal(http.StatusConflict, igts.call(
		http.MethodPost, path+"/reviews", sara, map[string]any{"rate": 5}, nil,
	))
	reviews := &page[review]{}
	igts.Require().Equal(http.StatusOK, igts.call(
		http.MethodGet, path+"/reviews", "", nil, reviews,
	))
	igts.Require().Len(reviews.Data, 1)
	igts.Equal(int64(1), reviews.TotalElements)
	igts.Equal("sara", reviews.Data[0].Username)
	igts.Equal(4, reviews.Data[0].Rate)
	reviews = &page[review]{}
	igts.Require().Equal(http.StatusOK, igts.call(
		http.MethodGet, "/users/sara/reviews?pageSize=5", "", nil, reviews,
	))
	igts.Require().Len(reviews.Data, 1)
	igts.Equal(st.ID, reviews.Data[0].StationID)
	igts.Equal(5, reviews.PageSize)
	rating := &struct {
		Average float64 `json:"average"`
		Count   int64   `json:"count"`
	}{}
	igts.Equal(http.StatusOK, igts.call(http.MethodGet, path+"/rating", "", nil, rating))
	igts.Equal(4.0, rating.Average)
	igts.Equal(int64(1), rating.Count)

	igts.Equal(http.StatusCreated, igts.call(http.MethodPost, "/favorites/"+fmt.Sprint(st.ID), sara, nil, nil))
	favs := &page[struct {
		Station station `json:"station"`
	}]{}
	igts.Equal(http.StatusOK, igts.call(http.MethodGet, "/favorites", sara, nil, favs))
	igts.Require().Len(favs.Data, 1)
	igts.Equal("Azadi", favs.Data[0].Station.Name)

	igts.Equal(http.StatusForbidden, igts.call(http.MethodDelete, path, sara, nil, nil))
	igts.Equal(http.StatusNoContent, igts.call(http.MethodDelete, path, admin, nil, nil))
	igts.Equal(http.StatusNotFound, igts.call(http.MethodGet, path, "", nil, nil))
}

func (igts *IntegrationGinTestSuite) TestPagination() {
	for i := 1; i <= 3; i++ {
		sqlitedb.CreateStation(igts.Ctx, igts.T(), igts.Pool, fmt.Sprintf("S%d", i), 35, 51)
	}
	p := &page[station]{}
	igts.Require().Equal(http.StatusOK, igts.call(http.MethodGet, "/fuel-stations", "", nil, p))
	igts.Len(p.Data, 2)
	igts.Equal(1, p.PageNumber)
	igts.Equal(2, p.PageSize)
	igts.Equal(2, p.TotalPages)
	igts.Equal(int64(3), p.TotalElements)
	igts.Require().NotNil(p.NextPage)
	igts.Equal(2, *p.NextPage)

	igts.Require().Equal(http.StatusOK, igts.call(
		http.MethodGet, "/fuel-stations?pageNumber=2&sortBy=name&sortDirection=desc",
		"", nil, p,
	))
	igts.Require().Len(p.Data, 1)
	igts.Equal("S1", p.Data[0].Name)
	igts.Nil(p.NextPage)

	d := &detail{}
	igts.Equal(http.StatusBadRequest, igts.call(
		http.MethodGet, "/fuel-stations?sortBy=price", "", nil, d,
	))
	igts.NotEmpty(d.Detail)

	fieldErrs := map[string][]string{}
	igts.Equal(http.StatusBadRequest, igts.call(
		http.MethodGet, "/fuel-stations?pageNumber=1000001", "", nil, &fieldErrs,
	))
	igts.NotEmpty(fieldErrs["PageNumber"])
	igts.Require().Equal(http.StatusOK, igts.call(
		http.MethodGet, "/fuel-stations?pageNumber=1000000&pageSize=100",
		"", nil, p,
	))
	igts.Empty(p.Data)
	igts.Equal(int64(3), p.TotalElements)
}

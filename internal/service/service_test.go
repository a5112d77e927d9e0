package service

import (
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/MustSel/blog-api/internal/config"
	"github.com/MustSel/blog-api/mocks"
)

func testCfg() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			AccessSecret:    "unit-access-secret",
			RefreshSecret:   "unit-refresh-secret",
			AccessTokenTTL:  30 * time.Second,
			RefreshTokenTTL: 24 * time.Hour,
			Issuer:          "blog-api",
		},
		Limits: config.LimitsConfig{
			DefaultLimit: 20,
			MaxLimit:     100,
		},
	}
}

func newSvc(t *testing.T) (*Service, *mocks.MockStorage, *mocks.MockImagesStorage, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)
	images := mocks.NewMockImagesStorage(ctrl)
	svc := New(st, images, testCfg())
	return svc, st, images, ctrl
}

func mustHashPW(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

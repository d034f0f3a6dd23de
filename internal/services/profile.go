// Package services wires extraction, reconciliation and persistence into the
// operations exposed over HTTP.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/facturaIA/paytext-invoice-service/internal/storage"
)

var (
	ErrInvalidProfile = errors.New("profile must be a JSON object")
	ErrInvalidLogo    = errors.New("logo must be a data URL")
)

// ProfileStore persists the vendor profile and logo. Neither value has a
// schema beyond being a JSON object and a data URL.
type ProfileStore struct {
	store storage.Store
}

// NewProfileStore creates a profile store
func NewProfileStore(store storage.Store) *ProfileStore {
	return &ProfileStore{store: store}
}

// GetProfile returns the stored profile or storage.ErrNotFound
func (p *ProfileStore) GetProfile(ctx context.Context) (json.RawMessage, error) {
	v, err := p.store.Get(ctx, storage.KeyProfile)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(v), nil
}

// SaveProfile stores a profile blob
func (p *ProfileStore) SaveProfile(ctx context.Context, profile json.RawMessage) error {
	var obj map[string]any
	if err := json.Unmarshal(profile, &obj); err != nil || obj == nil {
		return ErrInvalidProfile
	}
	if err := p.store.Set(ctx, storage.KeyProfile, string(profile)); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// ClearProfile removes the profile
func (p *ProfileStore) ClearProfile(ctx context.Context) error {
	return p.store.Clear(ctx, storage.KeyProfile)
}

// GetLogo returns the stored data URL or storage.ErrNotFound
func (p *ProfileStore) GetLogo(ctx context.Context) (string, error) {
	return p.store.Get(ctx, storage.KeyLogo)
}

// SaveLogo stores a data URL such as data:image/png;base64,...
func (p *ProfileStore) SaveLogo(ctx context.Context, dataURL string) error {
	dataURL = strings.TrimSpace(dataURL)
	if !strings.HasPrefix(dataURL, "data:") || !strings.Contains(dataURL, ",") {
		return ErrInvalidLogo
	}
	if err := p.store.Set(ctx, storage.KeyLogo, dataURL); err != nil {
		return fmt.Errorf("failed to save logo: %w", err)
	}
	return nil
}

// ClearLogo removes the logo
func (p *ProfileStore) ClearLogo(ctx context.Context) error {
	return p.store.Clear(ctx, storage.KeyLogo)
}

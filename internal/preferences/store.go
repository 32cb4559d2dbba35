package preferences

import (
	"context"
	"encoding/json"
	"strconv"

	"meme-stock-dashboard/internal/types"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Storage keys, shared with the browser dashboard's localStorage layout.
const (
	KeyEmail   = "userEmail"
	KeyEnabled = "emailEnabled"
	KeyTiers   = "alertPreferences"
)

// KV is a persistent string key-value store.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Store reads and writes notification preferences.
type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Load returns the stored preferences. Each field falls back to its default
// on its own when missing or unreadable.
func (s *Store) Load(ctx context.Context) types.Preferences {
	prefs := types.DefaultPreferences()

	if email, ok := s.get(ctx, KeyEmail); ok {
		prefs.Email = email
	}

	if raw, ok := s.get(ctx, KeyEnabled); ok {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			log.Warnf("ignoring stored %s=%q: %v", KeyEnabled, raw, err)
		} else {
			prefs.Enabled = enabled
		}
	}

	if raw, ok := s.get(ctx, KeyTiers); ok {
		tiers := types.DefaultTiers()
		if err := json.Unmarshal([]byte(raw), &tiers); err != nil {
			log.Warnf("ignoring stored %s: %v", KeyTiers, err)
		} else {
			prefs.Tiers = tiers
		}
	}

	return prefs
}

// Save writes every field separately. A failure leaves earlier fields
// written; the first error is returned after all writes were attempted.
func (s *Store) Save(ctx context.Context, prefs types.Preferences) error {
	tiers, err := json.Marshal(prefs.Tiers)
	if err != nil {
		return errors.Wrap(err, "encode alert preferences")
	}

	var firstErr error
	for _, kv := range [][2]string{
		{KeyEmail, prefs.Email},
		{KeyEnabled, strconv.FormatBool(prefs.Enabled)},
		{KeyTiers, string(tiers)},
	} {
		if err := s.kv.Set(ctx, kv[0], kv[1]); err != nil {
			log.Errorf("❌ Failed to save %s: %v", kv[0], err)
			if firstErr == nil {
				firstErr = errors.Wrapf(err, "save %s", kv[0])
			}
		}
	}
	return firstErr
}

func (s *Store) get(ctx context.Context, key string) (string, bool) {
	value, found, err := s.kv.Get(ctx, key)
	if err != nil {
		log.Warnf("could not read %s, using default: %v", key, err)
		return "", false
	}
	return value, found
}

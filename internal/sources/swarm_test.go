package sources

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/lifedash/internal/config"
	"github.com/fyrsmithlabs/lifedash/internal/store"
)

func TestSwarmRefresh(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	t.Run("latest check-in is stored", func(t *testing.T) {
		createdAt := now.Add(-90 * time.Minute).Unix()
		body := `{"response":{"checkins":{"items":[{
			"createdAt":` + itoa(createdAt) + `,
			"venue":{"name":"Café Janis","location":{"formattedAddress":["Rua da Moeda 1","1200 Lisboa","Portugal"]}}
		}]}}}`
		srv, lastURL := jsonUpstream(t, 200, body)

		st := store.New()
		j := NewSwarm(st, newTestClient(t), config.CheckinConfig{Token: "tok", BaseURL: srv.URL}, zap.NewNop())
		j.now = func() time.Time { return now }

		require.NoError(t, j.Refresh(context.Background()))

		v := st.View()
		assert.True(t, v.CheckinLoaded)
		require.NotNil(t, v.Checkin)
		assert.Equal(t, "Café Janis", v.Checkin.Name)
		assert.Equal(t, "Rua da Moeda 1, 1200 Lisboa, Portugal", v.Checkin.FormattedAddress)
		assert.Equal(t, "recently", v.Checkin.When)
		assert.Contains(t, *lastURL, "oauth_token=tok")
		assert.Contains(t, *lastURL, "limit=1")
	})

	t.Run("no check-ins is a quiet no-op", func(t *testing.T) {
		srv, _ := jsonUpstream(t, 200, `{"response":{"checkins":{"items":[]}}}`)

		st := store.New()
		j := NewSwarm(st, newTestClient(t), config.CheckinConfig{Token: "tok", BaseURL: srv.URL}, zap.NewNop())

		require.NoError(t, j.Refresh(context.Background()))
		v := st.View()
		assert.False(t, v.CheckinLoaded)
		assert.Nil(t, v.Checkin)
	})

	t.Run("missing token is an error", func(t *testing.T) {
		j := NewSwarm(store.New(), newTestClient(t), config.CheckinConfig{}, zap.NewNop())
		assert.Error(t, j.Refresh(context.Background()))
	})

	t.Run("upstream failure leaves the store unchanged", func(t *testing.T) {
		srv, _ := jsonUpstream(t, 503, "down")
		st := store.New()
		j := NewSwarm(st, newTestClient(t), config.CheckinConfig{Token: "tok", BaseURL: srv.URL}, zap.NewNop())

		assert.Error(t, j.Refresh(context.Background()))
		assert.False(t, st.View().CheckinLoaded)
	})
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

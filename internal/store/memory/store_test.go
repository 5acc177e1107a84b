package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"partnerscout/internal/scout"
)

func seed(t *testing.T, s *Store, subs ...scout.Subject) {
	t.Helper()
	for _, sub := range subs {
		require.NoError(t, s.Insert(context.Background(), sub))
	}
}

func TestInsertAndGet(t *testing.T) {
	t.Parallel()

	s := New()
	seed(t, s, scout.Subject{ID: "a", Name: "Acme", Website: "https://acme.test", Status: scout.StatusPending})

	sub, err := s.Get(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, "Acme", sub.Name)

	_, err = s.Get(context.Background(), "missing")
	require.Error(t, err)
}

func TestInsertRejectsDuplicates(t *testing.T) {
	t.Parallel()

	s := New()
	seed(t, s, scout.Subject{ID: "a", Website: "https://acme.test"})

	err := s.Insert(context.Background(), scout.Subject{ID: "a", Website: "https://other.test"})
	require.Error(t, err)
	require.True(t, s.IsUniqueViolation(err))

	err = s.Insert(context.Background(), scout.Subject{ID: "b", Website: "https://acme.test"})
	require.Error(t, err)
	require.True(t, s.IsUniqueViolation(err))
}

func TestListPendingOrderAndLimit(t *testing.T) {
	t.Parallel()

	s := New()
	seed(t, s,
		scout.Subject{ID: "a", Website: "https://a.test", Status: scout.StatusPending},
		scout.Subject{ID: "b", Website: "https://b.test", Status: scout.StatusFound},
		scout.Subject{ID: "c", Website: "https://c.test", Status: scout.StatusPending},
		scout.Subject{ID: "d", Website: "https://d.test", Status: scout.StatusPending},
	)

	pending, err := s.ListPending(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, "a", pending[0].ID)
	require.Equal(t, "c", pending[1].ID)

	count, err := s.CountPending(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestUpdatePartialSemantics(t *testing.T) {
	t.Parallel()

	s := New()
	seed(t, s, scout.Subject{
		ID: "a", Website: "https://a.test", Status: scout.StatusPending,
		Facts: scout.AffiliateFacts{ContactEmail: "kept@a.test", Tags: []string{"saas"}},
	})

	found := scout.StatusFound
	require.NoError(t, s.Update(context.Background(), "a", scout.Update{
		Status:       &found,
		AffiliateURL: scout.StrPtr("https://a.test/affiliates"),
	}))

	sub, err := s.Get(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, scout.StatusFound, sub.Status)
	require.Equal(t, "https://a.test/affiliates", sub.Facts.AffiliateURL)
	// Unset fields stay untouched.
	require.Equal(t, "kept@a.test", sub.Facts.ContactEmail)
	require.Equal(t, []string{"saas"}, sub.Facts.Tags)
}

func TestUpdateClearAndReplace(t *testing.T) {
	t.Parallel()

	s := New()
	seed(t, s, scout.Subject{
		ID: "a", Website: "https://a.test",
		Facts: scout.AffiliateFacts{Commission: "30% commission", Tags: []string{"saas"}},
	})

	require.NoError(t, s.Update(context.Background(), "a", scout.Update{
		Commission: scout.StrPtr(""),
		Tags:       []string{},
	}))

	sub, err := s.Get(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, "", sub.Facts.Commission)
	require.Empty(t, sub.Facts.Tags)
}

func TestUpdateMissingSubject(t *testing.T) {
	t.Parallel()

	s := New()
	require.Error(t, s.Update(context.Background(), "missing", scout.Update{}))
}

func TestListAllAndDelete(t *testing.T) {
	t.Parallel()

	s := New()
	seed(t, s,
		scout.Subject{ID: "a", Website: "https://a.test"},
		scout.Subject{ID: "b", Website: "https://b.test"},
	)

	all, err := s.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.NoError(t, s.Delete(context.Background(), "a"))
	require.Error(t, s.Delete(context.Background(), "a"))

	all, err = s.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "b", all[0].ID)
}

func TestUpdateWhereStatus(t *testing.T) {
	t.Parallel()

	s := New()
	seed(t, s,
		scout.Subject{ID: "a", Website: "https://a.test", Status: scout.StatusNotFound},
		scout.Subject{ID: "b", Website: "https://b.test", Status: scout.StatusNotFound},
		scout.Subject{ID: "c", Website: "https://c.test", Status: scout.StatusFound},
	)

	pending := scout.StatusPending
	count, err := s.UpdateWhereStatus(context.Background(), scout.StatusNotFound, scout.Update{Status: &pending})
	require.NoError(t, err)
	require.Equal(t, 2, count)

	remaining, err := s.CountPending(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, remaining)
}

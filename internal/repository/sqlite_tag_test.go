package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/testutil"
)

func TestTagRepo_AttachIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	tags := NewSQLiteTagRepo(db)
	plans := NewSQLitePlanRepo(db)
	ctx := context.Background()

	plan := testutil.NewTestPlan("Repot")
	require.NoError(t, plans.Create(ctx, plan))
	garden := testutil.NewTestTag("garden")
	indoor := testutil.NewTestTag("indoor")
	require.NoError(t, tags.Create(ctx, garden))
	require.NoError(t, tags.Create(ctx, indoor))

	require.NoError(t, tags.AttachToPlan(ctx, plan.ID, indoor.ID))
	require.NoError(t, tags.AttachToPlan(ctx, plan.ID, garden.ID))
	require.NoError(t, tags.AttachToPlan(ctx, plan.ID, garden.ID))

	got, err := tags.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "garden", got[0].Name)
	assert.Equal(t, "indoor", got[1].Name)

	require.NoError(t, tags.DetachFromPlan(ctx, plan.ID, garden.ID))
	got, err = tags.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "indoor", got[0].Name)
}

func TestTagRepo_GetByNameAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	tags := NewSQLiteTagRepo(db)
	ctx := context.Background()

	tag := testutil.NewTestTag("errands")
	require.NoError(t, tags.Create(ctx, tag))

	got, err := tags.GetByName(ctx, "errands")
	require.NoError(t, err)
	assert.Equal(t, tag, got)

	_, err = tags.GetByName(ctx, "chores")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := tags.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestTagRepo_AttachToMissingPlanFails(t *testing.T) {
	db := testutil.NewTestDB(t)
	tags := NewSQLiteTagRepo(db)
	ctx := context.Background()

	tag := testutil.NewTestTag("orphan")
	require.NoError(t, tags.Create(ctx, tag))
	assert.Error(t, tags.AttachToPlan(ctx, "no-such-plan", tag.ID))
}

package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"himalcli/internal/config"
	apperrors "himalcli/internal/errors"
)

func TestResolveSchema(t *testing.T) {
	declared := defaultDatasetConfig().Schema

	exped := NewTable(TableExpeditions, []string{"expid", "year", "peakid", "success1"}, nil)
	members := NewTable(TableMembers, []string{"fname", "citizen", "peakid", "msuccess"}, nil)
	peaks := NewTable(TablePeaks, []string{"peakid", "pkname"}, nil)

	rs := ResolveSchema(declared, exped, members, peaks)

	assert.Equal(t, 1, rs.ExpeditionYear)
	assert.Equal(t, 3, rs.ExpeditionOutcome)
	assert.Equal(t, 2, rs.MemberPeakID)
	assert.Equal(t, 1, rs.MemberNationality)
	assert.Equal(t, 0, rs.MemberName)
	assert.Equal(t, 3, rs.MemberSuccess)
	assert.Equal(t, 0, rs.PeakID)
	assert.Equal(t, 1, rs.PeakName)
}

func TestResolveSchema_MissingColumn(t *testing.T) {
	declared := defaultDatasetConfig().Schema

	exped := NewTable(TableExpeditions, []string{"expid", "peakid", "success1"}, nil)
	members := NewTable(TableMembers, []string{"fname", "citizen", "peakid", "msuccess"}, nil)
	peaks := NewTable(TablePeaks, []string{"peakid", "pkname"}, nil)

	rs := ResolveSchema(declared, exped, members, peaks)

	assert.Equal(t, -1, rs.ExpeditionYear)

	_, err := rs.RequireExpeditionYear()
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchema))
	assert.Contains(t, err.Error(), "year")

	// Other roles resolve independently of the missing one
	pos, err := rs.RequireMemberSuccess()
	require.NoError(t, err)
	assert.Equal(t, 3, pos)
}

func TestResolveSchema_EmptyDeclaration(t *testing.T) {
	exped := NewTable(TableExpeditions, []string{"expid"}, nil)
	members := NewTable(TableMembers, []string{"fname"}, nil)
	peaks := NewTable(TablePeaks, []string{"peakid"}, nil)

	rs := ResolveSchema(config.SchemaConfig{}, exped, members, peaks)

	assert.Equal(t, -1, rs.ExpeditionYear)
	_, err := rs.RequirePeakName()
	assert.Error(t, err)
}

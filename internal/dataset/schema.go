package dataset

import (
	"himalcli/internal/config"
	apperrors "himalcli/internal/errors"
)

// Table identifiers used in schema errors and API paths
const (
	TableExpeditions = "expeditions"
	TableMembers     = "members"
	TablePeaks       = "peaks"
	TableReferences  = "references"
	TableDictionary  = "dictionary"
)

// ResolvedSchema holds the column positions for every declared semantic role,
// resolved once at load time. A position of -1 means the declared column is
// absent from the loaded table; operations that need it fail with a schema
// mismatch while everything else proceeds.
type ResolvedSchema struct {
	ExpeditionID      int
	ExpeditionYear    int
	ExpeditionPeakID  int
	ExpeditionOutcome int

	MemberPeakID      int
	MemberNationality int
	MemberName        int
	MemberSuccess     int

	PeakID   int
	PeakName int

	declared config.SchemaConfig
}

// ResolveSchema maps the declared schema onto the loaded tables
func ResolveSchema(declared config.SchemaConfig, exped, members, peaks *Table) *ResolvedSchema {
	rs := &ResolvedSchema{declared: declared}

	rs.ExpeditionID = resolve(exped, declared.Expedition.ID)
	rs.ExpeditionYear = resolve(exped, declared.Expedition.Year)
	rs.ExpeditionPeakID = resolve(exped, declared.Expedition.PeakID)
	rs.ExpeditionOutcome = resolve(exped, declared.Expedition.Outcome)

	rs.MemberPeakID = resolve(members, declared.Member.PeakID)
	rs.MemberNationality = resolve(members, declared.Member.Nationality)
	rs.MemberName = resolve(members, declared.Member.Name)
	rs.MemberSuccess = resolve(members, declared.Member.Success)

	rs.PeakID = resolve(peaks, declared.Peak.ID)
	rs.PeakName = resolve(peaks, declared.Peak.Name)

	return rs
}

func resolve(t *Table, column string) int {
	if column == "" {
		return -1
	}
	pos, ok := t.Column(column)
	if !ok {
		return -1
	}
	return pos
}

// Role accessors return the position or a schema mismatch naming the
// declared column that is missing.

func (rs *ResolvedSchema) RequireExpeditionYear() (int, error) {
	return rs.require(rs.ExpeditionYear, TableExpeditions, rs.declared.Expedition.Year)
}

func (rs *ResolvedSchema) RequireExpeditionOutcome() (int, error) {
	return rs.require(rs.ExpeditionOutcome, TableExpeditions, rs.declared.Expedition.Outcome)
}

func (rs *ResolvedSchema) RequireMemberPeakID() (int, error) {
	return rs.require(rs.MemberPeakID, TableMembers, rs.declared.Member.PeakID)
}

func (rs *ResolvedSchema) RequireMemberNationality() (int, error) {
	return rs.require(rs.MemberNationality, TableMembers, rs.declared.Member.Nationality)
}

func (rs *ResolvedSchema) RequireMemberName() (int, error) {
	return rs.require(rs.MemberName, TableMembers, rs.declared.Member.Name)
}

func (rs *ResolvedSchema) RequireMemberSuccess() (int, error) {
	return rs.require(rs.MemberSuccess, TableMembers, rs.declared.Member.Success)
}

func (rs *ResolvedSchema) RequirePeakID() (int, error) {
	return rs.require(rs.PeakID, TablePeaks, rs.declared.Peak.ID)
}

func (rs *ResolvedSchema) RequirePeakName() (int, error) {
	return rs.require(rs.PeakName, TablePeaks, rs.declared.Peak.Name)
}

func (rs *ResolvedSchema) require(pos int, table, column string) (int, error) {
	if pos < 0 {
		return -1, apperrors.NewSchemaError(table, column)
	}
	return pos, nil
}

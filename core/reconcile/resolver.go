package reconcile

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// stagedRow is a non-blank row awaiting its verdict.
type stagedRow struct {
	num   int // 1-based sheet row number; the header takes row 1
	row   Row
	gen   Generation
	rec   Record
	err   error // normalization failure
	email string
}

// batch tracks the emails of a whole import run, so that every row sharing an email is rejected.
type batch struct {
	firstRow map[string]int
	repeated map[string]bool
}

func newBatch() *batch {
	return &batch{firstRow: make(map[string]int), repeated: make(map[string]bool)}
}

func (b *batch) see(email string, rowNum int) {
	if email == "" {
		return
	}
	if _, ok := b.firstRow[email]; ok {
		b.repeated[email] = true
		return
	}
	b.firstRow[email] = rowNum
}

// resolve decides whether a staged row may be committed. It returns false once the row is rejected,
// in which case `out` holds the reason (except for the first of several rows sharing an email,
// whose number is already named by the later rows' errors).
func (svc *Service) resolve(ctx context.Context, entity Entity, tgt target, b *batch, st stagedRow, out *Outcome) bool {
	if st.email != "" && b.repeated[st.email] {
		out.addDuplicate(st.email)
		if first := b.firstRow[st.email]; first != st.num {
			out.addError("Duplicate email '%s' found in spreadsheet rows %d and %d.", st.email, first, st.num)
		}
		return false
	}

	if st.err != nil {
		out.addRowError(st.num, st.err)
		return false
	}

	if st.email != "" {
		ownerID, err := tgt.emailOwner(ctx, st.email, st.rec.ID.Int)
		if err != nil {
			out.addRowError(st.num, errors.Wrap(err, "checking email"))
			return false
		}
		if ownerID != 0 {
			out.addDuplicate(st.email)
			out.addError("Email '%s' already belongs to %s ID %d.", st.email, entity, ownerID)
			return false
		}
	}

	if msg := validateSex(st.row.Cell(LayoutFor(entity, st.gen).Sex)); msg != "" {
		out.addError("Row %d: %s", st.num, msg)
		return false
	}
	return true
}

// validateSex returns the rejection message of a sex cell, or "" when valid.
func validateSex(cell string) string {
	if fold(cell) == "" {
		return "Missing sex value."
	}
	if _, ok := parseSex(cell); !ok {
		return fmt.Sprintf("Invalid sex value '%s'. Allowed: male, female, other.", cell)
	}
	return ""
}

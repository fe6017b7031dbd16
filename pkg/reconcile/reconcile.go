// Package reconcile compares the transactions of a plan with the ones that
// already exist in the backing file. It has no UI so the CLI executors and
// the server can share it.
package reconcile

import (
	"github.com/yurifrl/tally/pkg/compare"
	"github.com/yurifrl/tally/pkg/models"
)

// Status indicates the reconciliation result for a given local transaction.
//
//   - Synced: already present in the backing file.
//   - ToAdd:  missing, needs to be appended.
type Status int

const (
	Synced Status = iota
	ToAdd
)

func (s Status) String() string {
	if s == Synced {
		return "synced"
	}
	return "to_add"
}

// Entry links a local transaction with the existing row it matched, if any.
type Entry struct {
	Local    *models.Transaction
	Existing *models.Transaction // nil when status == ToAdd
	Status   Status
}

type Report struct {
	Items  []Entry
	toSync []*models.Transaction
}

// Build matches every local transaction against the existing ones, either by
// fingerprint or with compare.Equal. Each existing transaction matches at
// most once, so a plan that repeats a row twice adds the second copy when the
// file holds only one.
func Build(local, existing []*models.Transaction, byFingerprint bool) *Report {
	items := make([]Entry, 0, len(local))
	toSync := make([]*models.Transaction, 0)
	used := make([]bool, len(existing))

	for _, lt := range local {
		var found *models.Transaction
		for i, et := range existing {
			if used[i] {
				continue
			}
			if matches(lt, et, byFingerprint) {
				used[i] = true
				found = et
				break
			}
		}

		status := ToAdd
		if found != nil {
			status = Synced
		}
		items = append(items, Entry{Local: lt, Existing: found, Status: status})
		if status == ToAdd {
			toSync = append(toSync, lt)
		}
	}

	return &Report{Items: items, toSync: toSync}
}

func matches(local, existing *models.Transaction, byFingerprint bool) bool {
	if byFingerprint {
		return local.ID() == existing.ID()
	}
	return compare.Equal(local, existing)
}

// InSyncCount returns how many local transactions are already in the file.
func (r *Report) InSyncCount() int {
	return len(r.Items) - len(r.toSync)
}

// MissingCount returns how many local transactions still need appending.
func (r *Report) MissingCount() int {
	return len(r.toSync)
}

func (r *Report) TransactionsToSync() []*models.Transaction {
	return r.toSync
}

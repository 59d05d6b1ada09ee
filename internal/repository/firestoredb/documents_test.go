package firestoredb

import (
	"testing"

	"github.com/petropump/attendance-backend/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
)

func TestRecordDoc_ToRecordStatus(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   attendance.Status
	}{
		{"missing tag is a mark", "", attendance.StatusPresent},
		{"present", "present", attendance.StatusPresent},
		{"leave", "on_leave", attendance.StatusOnLeave},
		{"unknown tag kept", "late", attendance.Status("late")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := recordDoc{UserID: "emp-1", Status: tt.status}.toRecord()
			assert.Equal(t, tt.want, rec.Status)
		})
	}
}

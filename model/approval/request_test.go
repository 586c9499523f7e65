package approval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequestClone(t *testing.T) {
	approver := "u-2"
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	original := &Request{ID: "r1", RequesterID: "u-1", CommandName: "DeleteTraining", ApproverID: &approver, Completed: true, CompletedAt: &at}

	cloned := original.Clone()
	assert.Equal(t, original, cloned)

	*cloned.ApproverID = "other"
	assert.Equal(t, "u-2", *original.ApproverID)
	assert.Equal(t, StateCompleted, original.State())
	assert.Equal(t, StatePending, (&Request{}).State())
	assert.Nil(t, (*Request)(nil).Clone())
}

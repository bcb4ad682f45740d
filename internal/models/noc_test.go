package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextNOCStatusPermittedEdges(t *testing.T) {
	cases := []struct {
		from     NOCStatus
		stage    ApprovalStage
		decision Decision
		want     NOCStatus
	}{
		{NOCStatusPending, StageMentor, DecisionApprove, NOCStatusMentorApproved},
		{NOCStatusPending, StageMentor, DecisionReject, NOCStatusRejected},
		{NOCStatusMentorApproved, StageHOD, DecisionApprove, NOCStatusHODApproved},
		{NOCStatusMentorApproved, StageHOD, DecisionReject, NOCStatusRejected},
	}
	for _, tc := range cases {
		got, ok := NextNOCStatus(tc.from, tc.stage, tc.decision)
		assert.True(t, ok, "%s/%s/%s", tc.from, tc.stage, tc.decision)
		assert.Equal(t, tc.want, got)
	}
}

func TestNextNOCStatusRejectsEverythingElse(t *testing.T) {
	statuses := []NOCStatus{NOCStatusPending, NOCStatusMentorApproved, NOCStatusHODApproved, NOCStatusRejected}
	stages := []ApprovalStage{StageMentor, StageHOD}
	decisions := []Decision{DecisionApprove, DecisionReject}

	allowed := 0
	for _, from := range statuses {
		for _, stage := range stages {
			for _, d := range decisions {
				to, ok := NextNOCStatus(from, stage, d)
				if from.Terminal() {
					assert.False(t, ok, "terminal %s must not move", from)
					continue
				}
				if ok {
					allowed++
					assert.NotEqual(t, NOCStatusPending, to)
				}
			}
		}
	}
	assert.Equal(t, 4, allowed)

	_, ok := NextNOCStatus(NOCStatusPending, StageHOD, DecisionApprove)
	assert.False(t, ok)
	_, ok = NextNOCStatus(NOCStatusMentorApproved, StageMentor, DecisionReject)
	assert.False(t, ok)
}

func TestAllowedDecisions(t *testing.T) {
	assert.Equal(t, []Decision{DecisionApprove, DecisionReject}, AllowedDecisions(NOCStatusPending, StageMentor))
	assert.Empty(t, AllowedDecisions(NOCStatusPending, StageHOD))
	assert.Equal(t, []Decision{DecisionApprove, DecisionReject}, AllowedDecisions(NOCStatusMentorApproved, StageHOD))
	assert.Empty(t, AllowedDecisions(NOCStatusHODApproved, StageHOD))
	assert.Empty(t, AllowedDecisions(NOCStatusRejected, StageMentor))
}

func TestStageForRole(t *testing.T) {
	stage, ok := StageForRole(RoleTeacher)
	assert.True(t, ok)
	assert.Equal(t, StageMentor, stage)

	stage, ok = StageForRole(RoleHOD)
	assert.True(t, ok)
	assert.Equal(t, StageHOD, stage)

	_, ok = StageForRole(RoleStudent)
	assert.False(t, ok)
}

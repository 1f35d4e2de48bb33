package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexInt_Decodes(t *testing.T) {
	tests := []struct {
		in   string
		want FlexInt
	}{
		{`{"n": 50}`, 50},
		{`{"n": "50"}`, 50},
		{`{"n": "12.9"}`, 12},
		{`{"n": ""}`, 0},
		{`{"n": null}`, 0},
		{`{"n": "lots"}`, 0},
		{`{}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var v struct {
				N FlexInt `json:"n"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.in), &v))
			assert.Equal(t, tt.want, v.N)
		})
	}
}

func TestFlexString_AcceptsNumbers(t *testing.T) {
	var s Stream
	require.NoError(t, json.Unmarshal([]byte(`{"totalSemesters": 8, "duration": "4"}`), &s))
	assert.Equal(t, FlexString("8"), s.TotalSemesters)
	assert.Equal(t, FlexString("4"), s.Duration)
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" Curriculum-Developer ")
	assert.True(t, ok)
	assert.Equal(t, RoleCurriculumDeveloper, r)
	assert.True(t, r.IsPortal())

	_, ok = ParseRole(RoleSelection)
	assert.False(t, ok)

	assert.False(t, RoleAdmin.IsPortal())
}

func TestSeminar_IsFull(t *testing.T) {
	s := &Seminar{MaxParticipants: 2, Registrations: 2}
	assert.True(t, s.IsFull())
	s.Registrations = 1
	assert.False(t, s.IsFull())

	unlimited := &Seminar{Registrations: 7}
	assert.False(t, unlimited.IsFull())
	var legacy Seminar
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Old","maxParticipants":""}`), &legacy))
	assert.False(t, legacy.IsFull())
}

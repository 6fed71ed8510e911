package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidGroupID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"A1234B", true},
		{"Z9999Z", true},
		{"O1306G", true},
		{"A1234Btrailer", true},
		{"zz99zz", false},
		{"a1234b", false},
		{"A123B", false},
		{"12345A", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidGroupID(tt.id))
		})
	}
}

func TestNormalizeGroupName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"all upper", "SCOUTS_GENT", "Scouts Gent"},
		{"all lower", "scouts_gent", "Scouts Gent"},
		{"mixed case untouched", "ScoutS_Gent", "ScoutS Gent"},
		{"single word upper", "AKABE", "Akabe"},
		{"already titled", "Scouts Gent", "Scouts Gent"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeGroupName(tt.in))
		})
	}
}

func TestContactAlias(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		groupID string
		want    string
	}{
		{"plain", "Scouts Gent", "A1234B", "scouts_gent_a1234b@example.org"},
		{"gouw token collapsed", "Iets_gouw_Hier", "A1234B", "iets_hier_a1234b@example.org"},
		{"punctuation collapsed", "St. Joris (Gent)", "C5678D", "st_joris_gent__c5678d@example.org"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContactAlias(tt.title, tt.groupID, "example.org"))
		})
	}
}

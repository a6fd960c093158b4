package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aussiebroadwan/nominate/internal/nominate/domain"
	"github.com/stretchr/testify/require"
)

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Year
	}{
		{"2020", domain.Year{Value: 2020, Valid: true}},
		{"1999", domain.Year{Value: 1999, Valid: true}},
		{"", domain.Year{}},
		{"twenty", domain.Year{}},
		{"2020.5", domain.Year{}},
		{"-44", domain.Year{Value: -44, Valid: true}},
		{"2147483647", domain.Year{Value: 2147483647, Valid: true}},
		{"2147483648", domain.Year{}},
		{"3000000000", domain.Year{}},
		{"-2147483649", domain.Year{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, domain.ParseYear(tt.in))
		})
	}
}

func TestYear_TextAndJSON(t *testing.T) {
	require.Equal(t, "1999", domain.Year{Value: 1999, Valid: true}.String())
	require.Equal(t, "", domain.Year{}.String())

	b, err := json.Marshal(struct {
		A domain.Year `json:"a"`
		B domain.Year `json:"b"`
	}{A: domain.Year{Value: 2001, Valid: true}})
	require.NoError(t, err)
	require.JSONEq(t, `{"a":2001,"b":null}`, string(b))

	var back struct {
		A domain.Year `json:"a"`
		B domain.Year `json:"b"`
	}
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, domain.Year{Value: 2001, Valid: true}, back.A)
	require.False(t, back.B.Valid)
}

func TestNomination_CVReference(t *testing.T) {
	require.Empty(t, domain.Nomination{}.CVReference())
	require.Equal(t, "cv-x.pdf", domain.Nomination{CV: &domain.CVRef{Reference: "cv-x.pdf"}}.CVReference())
}

func TestAdminSession_Expired(t *testing.T) {
	now := time.Now()
	s := domain.AdminSession{ExpiresAt: now.Add(time.Minute)}
	require.False(t, s.Expired(now))
	require.True(t, s.Expired(now.Add(time.Minute)))
}

package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	tests := []struct {
		name    string
		street  string
		zip     string
		city    string
		wantErr bool
	}{
		{"full address", "12 rue de la Paix", "75002", "Paris", false},
		{"empty address", "", "", "", false},
		{"zip too short", "", "7500", "Paris", true},
		{"zip with letters", "", "75A02", "Paris", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAddress(tt.street, tt.zip, tt.city)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAddress_FullAddress(t *testing.T) {
	a, err := NewAddress(" 12 rue de la Paix ", "75002", "Paris")
	require.NoError(t, err)
	assert.Equal(t, "12 rue de la Paix, 75002 Paris", a.FullAddress())
	assert.Equal(t, "12 rue de la Paix", a.Street())

	onlyCity, _ := NewAddress("", "", "Lyon")
	assert.Equal(t, "Lyon", onlyCity.String())

	assert.True(t, EmptyAddress().IsEmpty())
	assert.True(t, a.Equals(a))
	assert.False(t, a.Equals(onlyCity))
}

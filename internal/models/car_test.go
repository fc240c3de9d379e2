package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAvailability(t *testing.T) {
	now := time.Now()

	t.Run("marking sold stamps sold_at", func(t *testing.T) {
		car := Car{IsAvailable: true}
		car.SetAvailability(false, now)
		assert.False(t, car.IsAvailable)
		require.NotNil(t, car.SoldAt)
		assert.Equal(t, now, *car.SoldAt)
	})

	t.Run("marking sold again keeps the original timestamp", func(t *testing.T) {
		earlier := now.Add(-24 * time.Hour)
		car := Car{SoldAt: &earlier}
		car.SetAvailability(false, now)
		require.NotNil(t, car.SoldAt)
		assert.Equal(t, earlier, *car.SoldAt)
	})

	t.Run("marking available clears sold_at", func(t *testing.T) {
		sold := now.Add(-time.Hour)
		car := Car{IsAvailable: false, SoldAt: &sold}
		car.SetAvailability(true, now)
		assert.True(t, car.IsAvailable)
		assert.Nil(t, car.SoldAt)
	})
}

func TestAvailabilityUpdates(t *testing.T) {
	now := time.Now()
	car := Car{}
	car.SetAvailability(false, now)

	updates := car.AvailabilityUpdates()
	assert.Equal(t, false, updates["is_available"])
	assert.Equal(t, car.SoldAt, updates["sold_at"])
}

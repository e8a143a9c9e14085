package config_test

import (
	"testing"

	"github.com/Anthya1104/raid6store/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestDefaultsAreValid(t *testing.T) {
	assert.NoError(t, config.Defaults().Validate())
}

func TestValidateRejectsWrongParityCount(t *testing.T) {
	c := config.Defaults()
	c.ParityDisks = 1
	assert.ErrorIs(t, c.Validate(), config.ErrConfigInvalid)
}

func TestValidateRejectsUnalignedDiskSize(t *testing.T) {
	c := config.Defaults()
	c.BlockSize = 10
	c.DiskSize = 25
	assert.ErrorIs(t, c.Validate(), config.ErrConfigInvalid)
}

func TestValidateRejectsTooFewDataDisks(t *testing.T) {
	c := config.Defaults()
	c.DataDisks = 1
	assert.ErrorIs(t, c.Validate(), config.ErrConfigInvalid)
}

func TestDerivedSizes(t *testing.T) {
	c := config.Defaults()
	c.DataDisks = 6
	c.BlockSize = 4
	c.DiskSize = 16

	assert.Equal(t, 4, c.StripeCount())
	assert.Equal(t, 24, c.StripeSize())
	assert.Equal(t, 8, c.Width())
}

package attachment

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLoader(t *testing.T) {
	// nil db: the catalog is skipped and Load must not touch a database
	feature := NewFeature(newTestAdapter(t), zap.NewNop(), nil, "")

	assert.Equal(t, "attachment", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	err := feature.Load(app)
	assert.NoError(t, err)
}

package integrity

import (
	"testing"

	"relationship-manager/core/storage/mocks"
	"relationship-manager/feature/relationships/mirror"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLoader(t *testing.T) {
	svc := NewService(mirror.Deps{Storage: new(mocks.Client), Bucket: "test-bucket"}, zap.NewNop())
	feature := NewFeature(svc)

	assert.Equal(t, "integrity", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NoError(t, feature.Load(fiber.New()))

	assert.False(t, NewFeature(nil).IsEnabled())
}

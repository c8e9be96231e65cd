package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVector2(t *testing.T) {
	assert.Equal(t, Vector2{X: 3, Y: -1}, Vec(1, 2).Add(Vec(2, -3)))
	assert.Equal(t, Vec(4, 6), Vec(4, 5).Down())
	assert.Equal(t, Vector2{}, Vec(0, 0))
}

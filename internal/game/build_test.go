package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/architect-backend/internal"
)

func redCube(x, y, z float64) internal.Block {
	return internal.Block{X: x, Y: y, Z: z, Color: "#ef4444", Shape: internal.ShapeCube, Size: 1}
}

func TestPlaceBlockDuringBuild(t *testing.T) {
	h := newHarness(t, testSettings())
	h.startRound("R1", "alice", "bob")
	h.resetFrames()

	require.NoError(t, h.engine.placeBlock("alice", redCube(1, 0, 1)))

	assert.Equal(t, 1, h.room("R1").World.Len())
	for _, c := range h.conns {
		var placed internal.Block
		c.last(t, internal.EventBlockPlaced, &placed)
		assert.Equal(t, redCube(1, 0, 1), placed)
	}
}

func TestWorldEditsOutsideBuildAreIgnored(t *testing.T) {
	h := newHarness(t, testSettings())
	h.join("alice", "R1")
	h.join("bob", "R1")
	h.resetFrames()

	assert.ErrorIs(t, h.engine.placeBlock("alice", redCube(1, 0, 1)), ErrWrongPhase)
	assert.ErrorIs(t, h.engine.updateBlock("alice", redCube(1, 0, 1)), ErrWrongPhase)
	assert.ErrorIs(t, h.engine.removeBlock("alice", internal.Coord{X: 1, Z: 1}), ErrWrongPhase)
	assert.ErrorIs(t, h.engine.sabotage("alice", internal.Vec3{}), ErrWrongPhase)

	assert.Zero(t, h.room("R1").World.Len())
	for _, c := range h.conns {
		assert.Empty(t, c.all())
	}
}

func TestWorldEditsIgnoredInLaterPhases(t *testing.T) {
	settings := testSettings()
	settings.BuildSeconds = 2
	settings.DiscussionSeconds = 2
	h := newHarness(t, settings)
	h.startRound("R1", "alice", "bob")
	require.NoError(t, h.engine.placeBlock("alice", redCube(0, 0, 0)))

	h.tickN("R1", 2)
	require.Equal(t, internal.PhaseDiscussion, h.room("R1").Phase)
	h.resetFrames()
	h.engine.handleIntent("alice", internal.PlaceBlock{Block: redCube(5, 0, 5)})
	h.engine.handleIntent("alice", internal.RemoveBlock{Coord: internal.Coord{}})
	assert.Empty(t, h.conns["bob"].all())

	h.tickN("R1", 2)
	require.Equal(t, internal.PhaseVoting, h.room("R1").Phase)
	h.resetFrames()
	h.engine.handleIntent("alice", internal.UpdateBlock{Block: redCube(0, 0, 0)})
	assert.Empty(t, h.conns["bob"].all())

	assert.Equal(t, []internal.Block{redCube(0, 0, 0)}, h.room("R1").World.Blocks())
}

func TestRemoveAndUpdateAbsentAreNoOps(t *testing.T) {
	h := newHarness(t, testSettings())
	h.startRound("R1", "alice", "bob")
	require.NoError(t, h.engine.placeBlock("alice", redCube(0, 0, 0)))
	h.resetFrames()

	assert.ErrorIs(t, h.engine.removeBlock("alice", internal.Coord{X: 9}), ErrNoSuchBlock)
	assert.ErrorIs(t, h.engine.updateBlock("alice", redCube(9, 0, 0)), ErrNoSuchBlock)

	assert.Equal(t, 1, h.room("R1").World.Len())
	assert.Empty(t, h.conns["alice"].all())
	assert.Empty(t, h.conns["bob"].all())
}

func TestUpdateAndRemoveBlock(t *testing.T) {
	h := newHarness(t, testSettings())
	h.startRound("R1", "alice", "bob")
	require.NoError(t, h.engine.placeBlock("alice", redCube(0, 0, 0)))

	green := redCube(0, 0, 0)
	green.Color = "#22c55e"
	require.NoError(t, h.engine.updateBlock("bob", green))

	var updated internal.Block
	h.conns["alice"].last(t, internal.EventBlockUpdated, &updated)
	assert.Equal(t, green, updated)

	require.NoError(t, h.engine.removeBlock("bob", internal.Coord{}))
	var removed internal.Coord
	h.conns["alice"].last(t, internal.EventBlockRemoved, &removed)
	assert.Equal(t, internal.Coord{}, removed)
	assert.Zero(t, h.room("R1").World.Len())
}

func TestWorldCap(t *testing.T) {
	settings := testSettings()
	settings.MaxBlocks = 1
	h := newHarness(t, settings)
	h.startRound("R1", "alice")

	require.NoError(t, h.engine.placeBlock("alice", redCube(0, 0, 0)))
	assert.ErrorIs(t, h.engine.placeBlock("alice", redCube(1, 0, 0)), ErrWorldFull)

	blue := redCube(0, 0, 0)
	blue.Color = "#3b82f6"
	require.NoError(t, h.engine.placeBlock("alice", blue))
	assert.Equal(t, []internal.Block{blue}, h.room("R1").World.Blocks())
}

func TestSabotageRemovesNearbyBlocksButNotFloor(t *testing.T) {
	h := newHarness(t, testSettings())
	room := h.startRound("R1", "alice", "bob")
	seeker := room.Seeker()
	builder := builderOf(room)

	blocks := []internal.Block{
		redCube(0, -1, 0), // floor, inside radius
		redCube(1, -1, 1), // floor, inside radius
		redCube(1, 0, 1),
		redCube(0, 2, 0),
		redCube(0, 3, 0),  // exactly on the radius
		redCube(2, 2, 2),  // outside
		redCube(10, 0, 0), // far away
	}
	for _, b := range blocks {
		require.NoError(t, h.engine.placeBlock(builder.Id, b))
	}
	h.resetFrames()

	assert.ErrorIs(t, h.engine.sabotage(builder.Id, internal.Vec3{}), ErrNotPermitted)
	assert.Empty(t, h.conns[builder.Id].all())

	require.NoError(t, h.engine.sabotage(seeker.Id, internal.Vec3{0, 0, 0}))

	assert.Equal(t, []internal.Block{
		redCube(0, -1, 0),
		redCube(1, -1, 1),
		redCube(2, 2, 2),
		redCube(10, 0, 0),
	}, room.World.Blocks())

	assert.Equal(t, 3, h.conns[builder.Id].count(internal.EventBlockRemoved))
	assert.Equal(t, 3, h.conns[seeker.Id].count(internal.EventBlockRemoved))
	for _, f := range h.conns[builder.Id].all() {
		assert.Equal(t, internal.EventBlockRemoved, f.Type)
	}
}

func TestSabotageNeverTouchesFloor(t *testing.T) {
	h := newHarness(t, testSettings())
	room := h.startRound("R1", "alice")
	for x := -2.0; x <= 2; x++ {
		for z := -2.0; z <= 2; z++ {
			require.NoError(t, h.engine.placeBlock("alice", redCube(x, internal.FloorY, z)))
		}
	}

	require.NoError(t, h.engine.sabotage("alice", internal.Vec3{0, -1, 0}))
	assert.Equal(t, 25, room.World.Len())
}

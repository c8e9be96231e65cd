package desktop

import (
	"fmt"

	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/blockfall/driver"
	"github.com/plus3/blockfall/game"
)

// DebugToggleKey shows or hides the debug overlay.
const DebugToggleKey = ebiten.KeyF3

const frameHistory = 120

// DebugOverlay draws session and scheduler statistics with Dear ImGui on top
// of the game.
type DebugOverlay struct {
	backend *ebitenbackend.EbitenBackend
	frames  *driver.FrameTimes
	visible bool
}

// NewDebugOverlay creates the ImGui backend and its window. It must be
// called before ebiten.RunGame.
func NewDebugOverlay(title string, width, height int) *DebugOverlay {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")

	return &DebugOverlay{
		backend: backend,
		frames:  driver.NewFrameTimes(frameHistory, nil),
		visible: true,
	}
}

// Toggle flips the overlay's visibility.
func (d *DebugOverlay) Toggle() {
	d.visible = !d.visible
}

func (d *DebugOverlay) beginFrame() {
	d.backend.BeginFrame()
	d.frames.Tick()
}

func (d *DebugOverlay) endFrame(s *game.Session) {
	if d.visible {
		d.renderSession(s)
		d.renderSystems(s.Scheduler().GetStats())
	}
	d.backend.EndFrame()
}

func (d *DebugOverlay) draw(screen *ebiten.Image) {
	d.backend.Draw(screen)
}

func (d *DebugOverlay) layout(width, height int) {
	d.backend.Layout(width, height)
}

func (d *DebugOverlay) renderSession(s *game.Session) {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(280, 260), imgui.CondOnce)

	if imgui.BeginV("Session", nil, imgui.WindowFlagsNone) {
		stats := s.Stats()
		imgui.Text(fmt.Sprintf("Tick: %d", s.Ticks()))
		imgui.Text(fmt.Sprintf("Phase: %s", s.Phase()))
		imgui.Text(fmt.Sprintf("Score: %d", s.Score()))
		imgui.Text(fmt.Sprintf("Locked: %d  Holds: %d  Hard drops: %d", stats.Locked, stats.Holds, stats.HardDrops))
		for _, n := range stats.ClearSizes() {
			imgui.BulletText(fmt.Sprintf("%d-line clears: %d", n, stats.Clears(n)))
		}

		imgui.Separator()
		avg := d.frames.Avg()
		if avg > 0 {
			imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
		}
		samples := d.frames.Samples()
		imgui.PlotLinesFloatPtr("##frametime", &samples[0], int32(len(samples)))
	}
	imgui.End()
}

func (d *DebugOverlay) renderSystems(stats *game.SchedulerStats) {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 280), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(380, 200), imgui.CondOnce)

	if imgui.BeginV("Systems", nil, imgui.WindowFlagsNone) {
		imgui.Text(fmt.Sprintf("Systems: %d  Executions: %d", stats.SystemCount, stats.TotalExecutions))
		imgui.Separator()

		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsSizingFixedFit
		if imgui.BeginTableV("SystemsTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Name")
			imgui.TableSetupColumn("Avg (ms)")
			imgui.TableSetupColumn("Min (ms)")
			imgui.TableSetupColumn("Max (ms)")
			imgui.TableHeadersRow()

			rows := driver.SystemRows(stats)
			if specs := imgui.TableGetSortSpecs(); specs.SpecsCount() > 0 {
				spec := specs.Specs()
				driver.SortSystemRows(rows, int(spec.ColumnIndex()), spec.SortDirection() == imgui.SortDirectionDescending)
			}

			for _, row := range rows {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(row.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%.3f", row.Avg))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%.3f", row.Min))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%.3f", row.Max))
			}
			imgui.EndTable()
		}
	}
	imgui.End()
}

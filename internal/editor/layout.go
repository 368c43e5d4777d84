package editor

import "github.com/go-gl/mathgl/mgl32"

const (
	toolPanelWidth  = 340
	statusBarHeight = 30
)

type rect struct {
	pos, size mgl32.Vec2
}

// layout splits the work area into the viewport on the left, a column of
// equally tall tool panels on the right and a status bar along the bottom.
type layout struct {
	viewport rect
	tools    []rect
	status   rect
}

func computeLayout(workPos, workSize mgl32.Vec2, tools int) layout {
	contentHeight := max(workSize.Y()-statusBarHeight, 0)
	columnWidth := float32(0)
	if tools > 0 {
		columnWidth = min(float32(toolPanelWidth), workSize.X())
	}

	l := layout{
		viewport: rect{
			pos:  workPos,
			size: mgl32.Vec2{workSize.X() - columnWidth, contentHeight},
		},
		status: rect{
			pos:  mgl32.Vec2{workPos.X(), workPos.Y() + contentHeight},
			size: mgl32.Vec2{workSize.X(), statusBarHeight},
		},
	}
	if tools == 0 {
		return l
	}

	height := contentHeight / float32(tools)
	x := workPos.X() + l.viewport.size.X()
	for i := range tools {
		l.tools = append(l.tools, rect{
			pos:  mgl32.Vec2{x, workPos.Y() + float32(i)*height},
			size: mgl32.Vec2{columnWidth, height},
		})
	}
	return l
}

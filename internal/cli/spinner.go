package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cvpchart/pkg/pipeline"
)

const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// stageSpinner animates one terminal line naming the pipeline stage in
// progress and the time since the run started. Its setStage method is
// passed as [pipeline.Options.Progress].
type stageSpinner struct {
	w     io.Writer
	start time.Time

	mu    sync.Mutex
	stage string

	width int // visible width of the last frame, read by the run goroutine only
	stop  chan struct{}
	done  chan struct{}
	once  sync.Once
}

// startStageSpinner starts drawing to w. The line is cleared when ctx ends
// or Stop is called.
func startStageSpinner(ctx context.Context, w io.Writer) *stageSpinner {
	s := &stageSpinner{
		w:     w,
		start: time.Now(),
		stage: "Starting",
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go s.run(ctx)
	return s
}

// setStage records the stage shown on the next frame.
func (s *stageSpinner) setStage(stage, detail string) {
	s.mu.Lock()
	s.stage = stageLabel(stage, detail)
	s.mu.Unlock()
}

func stageLabel(stage, detail string) string {
	switch stage {
	case pipeline.StageValidate:
		return "Checking figures"
	case pipeline.StageLayout:
		return "Laying out blocks"
	case pipeline.StageRender:
		return "Rendering " + strings.ToUpper(detail)
	}
	return stage
}

func (s *stageSpinner) run(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			s.clear()
			return
		case <-s.stop:
			s.clear()
			return
		case <-ticker.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func (s *stageSpinner) draw(frame string) {
	s.mu.Lock()
	stage := s.stage
	s.mu.Unlock()

	elapsed := time.Since(s.start).Round(100 * time.Millisecond)
	line := StyleTitle.Render(frame) + " " + stage + " " + StyleDim.Render(fmt.Sprintf("· %s", elapsed))
	pad := s.width - lipgloss.Width(line)
	s.width = lipgloss.Width(line)
	if pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	fmt.Fprint(s.w, "\r"+line)
}

func (s *stageSpinner) clear() {
	if s.width == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	s.width = 0
}

// Stop clears the line and waits for the animation to end. It is safe to
// call more than once and after ctx was cancelled.
func (s *stageSpinner) Stop() {
	s.once.Do(func() { close(s.stop) })
	<-s.done
}

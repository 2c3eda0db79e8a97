package display

// Recorder captures frames for test assertions.
type Recorder struct {
	Menus    []MenuFrame
	Grids    []GridFrame
	Readings []ReadingFrame
	Messages []MessageFrame

	// RenderError, if set, is returned by every draw call.
	RenderError error

	Closed bool
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Menu(f MenuFrame) error {
	if r.RenderError != nil {
		return r.RenderError
	}
	r.Menus = append(r.Menus, f)
	return nil
}

func (r *Recorder) Grid(f GridFrame) error {
	if r.RenderError != nil {
		return r.RenderError
	}
	r.Grids = append(r.Grids, f)
	return nil
}

func (r *Recorder) Reading(f ReadingFrame) error {
	if r.RenderError != nil {
		return r.RenderError
	}
	r.Readings = append(r.Readings, f)
	return nil
}

func (r *Recorder) Message(f MessageFrame) error {
	if r.RenderError != nil {
		return r.RenderError
	}
	r.Messages = append(r.Messages, f)
	return nil
}

func (r *Recorder) Close() error {
	r.Closed = true
	return nil
}

// LastMenu returns the most recent menu frame, or the zero frame.
func (r *Recorder) LastMenu() MenuFrame {
	if len(r.Menus) == 0 {
		return MenuFrame{}
	}
	return r.Menus[len(r.Menus)-1]
}

// LastGrid returns the most recent grid frame, or the zero frame.
func (r *Recorder) LastGrid() GridFrame {
	if len(r.Grids) == 0 {
		return GridFrame{}
	}
	return r.Grids[len(r.Grids)-1]
}

// LastReading returns the most recent reading frame, or the zero frame.
func (r *Recorder) LastReading() ReadingFrame {
	if len(r.Readings) == 0 {
		return ReadingFrame{}
	}
	return r.Readings[len(r.Readings)-1]
}

// LastMessage returns the most recent message frame, or the zero frame.
func (r *Recorder) LastMessage() MessageFrame {
	if len(r.Messages) == 0 {
		return MessageFrame{}
	}
	return r.Messages[len(r.Messages)-1]
}

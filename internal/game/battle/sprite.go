package battle

import "fmt"

// Pose is the animation a character is playing.
type Pose int

const (
	PoseIdle Pose = iota
	PoseAttack
	PoseSpecial
)

// String returns the sprite segment for the pose.
func (p Pose) String() string {
	switch p {
	case PoseAttack:
		return "attack"
	case PoseSpecial:
		return "special"
	default:
		return "idle"
	}
}

// FramesPerPose is the number of frames in every pose cycle.
const FramesPerPose = 10

type animState int

const (
	animReset     animState = iota // next frame starts the idle pose
	animTriggered                  // an action was taken; next frame starts its pose
	animPlaying
)

// Animation drives sprite frames from the last action taken.
// The zero value is ready to use and starts idle.
type Animation struct {
	state animState
	pose  Pose
	frame int
}

// Trigger starts pose p on the next frame, discarding any frame in progress.
func (a *Animation) Trigger(p Pose) {
	a.state = animTriggered
	a.pose = p
	a.frame = 0
}

// Next advances one frame and returns "<prefix>_<pose>_<frame>".
// After the last frame of any pose the animation resets and returns idle frame 0.
func (a *Animation) Next(prefix string) string {
	switch a.state {
	case animReset:
		a.state, a.pose, a.frame = animPlaying, PoseIdle, 0
		return sprite(prefix, PoseIdle, 0)
	case animTriggered:
		a.state, a.frame = animPlaying, 0
		return sprite(prefix, a.pose, 0)
	}
	if a.frame == FramesPerPose-1 {
		a.state = animReset
		return sprite(prefix, PoseIdle, 0)
	}
	a.frame++
	return sprite(prefix, a.pose, a.frame)
}

func sprite(prefix string, p Pose, frame int) string {
	return fmt.Sprintf("%s_%s_%d", prefix, p, frame)
}

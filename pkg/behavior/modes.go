package behavior

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned when a mode or state name does not parse.
var ErrUnknownMode = errors.New("unknown mode")

// ActivityState is the top-level behavior mode.
type ActivityState int

const (
	StateSleeping ActivityState = iota
	StateIdle
	StateInterested
	StateFocused
	StateSpeaking
	StateListening
	StatePresenting
)

// LookAtMode chooses what the robot looks at.
type LookAtMode int

const (
	LookAtIdle LookAtMode = iota
	LookAtAvoid
	LookAtSaliency
	LookAtHand
	LookAtOneFace
	LookAtAllFaces
	LookAtAudience
	LookAtSpeaker
)

// EyeContactMode refines a face target to a point on the face.
type EyeContactMode int

const (
	EyeContactIdle EyeContactMode = iota
	EyeContactLeftEye
	EyeContactRightEye
	EyeContactBothEyes
	EyeContactTriangle
)

// MirroringMode selects which facial channels of the current face are copied.
type MirroringMode int

const (
	MirrorIdle MirroringMode = iota
	MirrorEyebrows
	MirrorEyelids
	MirrorEyes
	MirrorMouth
	MirrorMouthEyebrows
	MirrorMouthEyelids
	MirrorAll
)

// GazeMode coordinates eye gaze and head movement.
type GazeMode int

const (
	GazeOnly GazeMode = iota
	HeadOnly
	GazeAndHead
	GazeLeadsHead
	HeadLeadsGaze
)

var (
	activityNames   = []string{"sleeping", "idle", "interested", "focused", "speaking", "listening", "presenting"}
	lookAtNames     = []string{"idle", "avoid", "saliency", "hand", "one_face", "all_faces", "audience", "speaker"}
	eyeContactNames = []string{"idle", "left_eye", "right_eye", "both_eyes", "triangle"}
	mirroringNames  = []string{"idle", "eyebrows", "eyelids", "eyes", "mouth", "mouth_eyebrows", "mouth_eyelids", "all"}
	gazeNames       = []string{"gaze_only", "head_only", "gaze_and_head", "gaze_leads_head", "head_leads_gaze"}
)

// AllActivityStates lists the states in declaration order.
var AllActivityStates = []ActivityState{
	StateSleeping, StateIdle, StateInterested, StateFocused, StateSpeaking, StateListening, StatePresenting,
}

func enumName(names []string, v int) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("unknown(%d)", v)
	}
	return names[v]
}

func parseEnum[T ~int](kind string, names []string, s string) (T, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", "_")
	for i, n := range names {
		if n == key {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %s %q", ErrUnknownMode, kind, s)
}

func (s ActivityState) String() string  { return enumName(activityNames, int(s)) }
func (m LookAtMode) String() string     { return enumName(lookAtNames, int(m)) }
func (m EyeContactMode) String() string { return enumName(eyeContactNames, int(m)) }
func (m MirroringMode) String() string  { return enumName(mirroringNames, int(m)) }
func (m GazeMode) String() string       { return enumName(gazeNames, int(m)) }

// ParseActivityState parses a state name such as "listening".
func ParseActivityState(s string) (ActivityState, error) {
	return parseEnum[ActivityState]("state", activityNames, s)
}

// ParseLookAt parses a look-at mode name such as "all_faces".
func ParseLookAt(s string) (LookAtMode, error) {
	return parseEnum[LookAtMode]("lookat", lookAtNames, s)
}

// ParseEyeContact parses an eye-contact mode name such as "triangle".
func ParseEyeContact(s string) (EyeContactMode, error) {
	return parseEnum[EyeContactMode]("eyecontact", eyeContactNames, s)
}

// ParseMirroring parses a mirroring mode name such as "mouth_eyebrows".
func ParseMirroring(s string) (MirroringMode, error) {
	return parseEnum[MirroringMode]("mirroring", mirroringNames, s)
}

// ParseGaze parses a gaze mode name such as "head_leads_gaze".
func ParseGaze(s string) (GazeMode, error) {
	return parseEnum[GazeMode]("gaze", gazeNames, s)
}

// Text encoding lets modes travel by name in JSON and YAML.

func (s ActivityState) MarshalText() ([]byte, error)  { return []byte(s.String()), nil }
func (m LookAtMode) MarshalText() ([]byte, error)     { return []byte(m.String()), nil }
func (m EyeContactMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }
func (m MirroringMode) MarshalText() ([]byte, error)  { return []byte(m.String()), nil }
func (m GazeMode) MarshalText() ([]byte, error)       { return []byte(m.String()), nil }

func (s *ActivityState) UnmarshalText(b []byte) (err error) {
	*s, err = ParseActivityState(string(b))
	return err
}

func (m *LookAtMode) UnmarshalText(b []byte) (err error) {
	*m, err = ParseLookAt(string(b))
	return err
}

func (m *EyeContactMode) UnmarshalText(b []byte) (err error) {
	*m, err = ParseEyeContact(string(b))
	return err
}

func (m *MirroringMode) UnmarshalText(b []byte) (err error) {
	*m, err = ParseMirroring(string(b))
	return err
}

func (m *GazeMode) UnmarshalText(b []byte) (err error) {
	*m, err = ParseGaze(string(b))
	return err
}

// runsEyeContact reports whether the mode looks at faces and so runs eye contact and mirroring.
func (m LookAtMode) runsEyeContact() bool {
	return m == LookAtOneFace || m == LookAtAllFaces
}

// lagging reports whether one actuator follows the other after a delay.
func (m GazeMode) lagging() bool {
	return m == GazeLeadsHead || m == HeadLeadsGaze
}

// alternates reports whether the mode moves between points on a countdown.
func (m EyeContactMode) alternates() bool {
	return m == EyeContactBothEyes || m == EyeContactTriangle
}

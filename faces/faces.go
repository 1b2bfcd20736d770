// Package faces is the narrow boundary to the face-recognition model used
// by the find-the-guest game. Everything behind Matcher is a black box; the
// rest of the system only ever asks "which of these guests appear in this
// photo" and treats failures as non-fatal.
package faces

import (
	"errors"
	"log"
	"sync"

	"guestsnap/config"

	goface "github.com/Kagami/go-face"
)

var ErrUnavailable = errors.New("face matching unavailable")

// Matcher reports which of the given reference photos (keyed by guest id,
// values are local file paths) show a person also present in the photo at
// photoPath.
type Matcher interface {
	MatchGuests(photoPath string, refs map[uint64]string) ([]uint64, error)
}

// Recognizer wraps the dlib-based recognizer. The underlying library is not
// safe for concurrent use, hence the mutex.
type Recognizer struct {
	mu  sync.Mutex
	rec *goface.Recognizer
}

// NewRecognizer loads the dlib model files from config.FACE_MODELS_DIR.
// Returns ErrUnavailable when face matching is switched off or the models
// cannot be loaded; callers are expected to keep going without the game's
// auto-tagging in that case.
func NewRecognizer() (*Recognizer, error) {
	if !config.FACE_DETECT {
		return nil, ErrUnavailable
	}
	rec, err := goface.NewRecognizer(config.FACE_MODELS_DIR)
	if err != nil {
		log.Printf("Face recognizer init failed (dir %s): %v", config.FACE_MODELS_DIR, err)
		return nil, ErrUnavailable
	}
	return &Recognizer{rec: rec}, nil
}

func (r *Recognizer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rec != nil {
		r.rec.Close()
		r.rec = nil
	}
}

func (r *Recognizer) MatchGuests(photoPath string, refs map[uint64]string) ([]uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rec == nil {
		return nil, ErrUnavailable
	}
	found, err := r.rec.RecognizeFile(photoPath)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	var matched []uint64
	for guestID, refPath := range refs {
		ref, err := r.rec.RecognizeSingleFile(refPath)
		if err != nil || ref == nil {
			// Reference photo without a single clear face - skip the guest
			continue
		}
		for _, f := range found {
			if goface.SquaredEuclideanDistance(ref.Descriptor, f.Descriptor) <= config.FACE_MAX_DISTANCE_SQ {
				matched = append(matched, guestID)
				break
			}
		}
	}
	return matched, nil
}

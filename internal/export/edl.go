package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/reelforge/reelforge-agent/internal/media"
)

// CarouselEvent is one stretch of the narration during which a single media
// item is on screen.
type CarouselEvent struct {
	Name         string
	Kind         media.Kind
	StartSeconds float64
	EndSeconds   float64
}

// BuildCarousel lays the looping media sequence over totalSeconds of narration,
// one event per item appearance. Each item keeps its own display duration;
// items without one use perItemSeconds. The last event is cut at totalSeconds.
func BuildCarousel(items []media.Item, totalSeconds, perItemSeconds float64) []CarouselEvent {
	if len(items) == 0 || totalSeconds <= 0 || media.CarouselSeconds(items, perItemSeconds) <= 0 {
		return nil
	}

	var events []CarouselEvent
	start := 0.0
	for i := 0; start < totalSeconds; i = (i + 1) % len(items) {
		d := media.ItemSeconds(items[i], perItemSeconds)
		if d <= 0 {
			continue
		}
		events = append(events, CarouselEvent{
			Name:         items[i].Name,
			Kind:         items[i].Kind,
			StartSeconds: start,
			EndSeconds:   math.Min(start+d, totalSeconds),
		})
		start += d
	}
	return events
}

// GenerateEDL writes a CMX3600 edit decision list with one video event per
// carousel slot. Stills use a zero source in point.
func GenerateEDL(events []CarouselEvent, title string, frameRate float64) string {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = 30
	}

	dropFrame := math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01

	var b strings.Builder
	fmt.Fprintf(&b, "TITLE: %s\n", title)
	if dropFrame {
		b.WriteString("FCM: DROP FRAME\n")
	} else {
		b.WriteString("FCM: NON-DROP FRAME\n")
	}
	b.WriteString("\n")

	tc := func(seconds float64) string {
		if dropFrame {
			return dropFrameTimecode(seconds, frameRate, fps)
		}
		return timecode(seconds, fps)
	}

	for i, ev := range events {
		length := ev.EndSeconds - ev.StartSeconds
		fmt.Fprintf(&b, "%03d  %-8s %-5s C        %s %s %s %s\n",
			i+1, "AX", "V",
			tc(0), tc(length),
			tc(ev.StartSeconds), tc(ev.EndSeconds),
		)
		fmt.Fprintf(&b, "* FROM CLIP NAME:  %s\n", ev.Name)
		fmt.Fprintf(&b, "* MEDIA KIND:  %s\n", ev.Kind)
	}
	return b.String()
}

func timecode(seconds float64, fps int) string {
	frames := int(math.Round(seconds * float64(fps)))
	ff := frames % fps
	totalSecs := frames / fps
	return fmt.Sprintf("%02d:%02d:%02d:%02d", totalSecs/3600, (totalSecs/60)%60, totalSecs%60, ff)
}

// dropFrameTimecode counts frames at the real 29.97/59.94 rate and skips the
// first 2 (or 4) frame numbers of every minute except each tenth minute.
func dropFrameTimecode(seconds, frameRate float64, fps int) string {
	drop := fps / 15
	frames := int(math.Round(seconds * frameRate))
	perTenMinutes := fps*600 - drop*9
	perMinute := fps*60 - drop

	tens := frames / perTenMinutes
	rem := frames % perTenMinutes
	frames += drop * 9 * tens
	if rem > drop {
		frames += drop * ((rem - drop) / perMinute)
	}

	ff := frames % fps
	totalSecs := frames / fps
	return fmt.Sprintf("%02d:%02d:%02d;%02d", totalSecs/3600, (totalSecs/60)%60, totalSecs%60, ff)
}

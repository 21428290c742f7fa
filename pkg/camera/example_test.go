package camera_test

import (
	"fmt"
	"time"

	"github.com/matzehuels/genregraph/pkg/camera"
	"github.com/matzehuels/genregraph/pkg/graph"
)

func ExampleForward() {
	s := camera.State{Zoom: 2, X: 10, Y: 0, DPR: 1}
	vp := camera.Viewport{Width: 800, Height: 600}
	p := camera.Forward(s, vp, graph.Position{X: 20, Y: 5})
	fmt.Println(p)
	fmt.Println(camera.Inverse(s, vp, p))
	// Output:
	// {420 310}
	// {20 5}
}

func ExampleAnimator() {
	start := time.Unix(0, 0)
	store := camera.NewMemoryStore(camera.Identity())
	frames := camera.NewManualScheduler()
	anim := camera.NewAnimator(store, frames, camera.WithClock(func() time.Time { return start }))

	anim.AnimateToCategory(graph.Position{X: 200, Y: 100}, time.Second, func() {
		fmt.Println("done")
	})
	for ms := 250; anim.Animating(); ms += 250 {
		frames.Flush(start.Add(time.Duration(ms) * time.Millisecond))
	}
	fmt.Printf("%+v\n", store.Current())
	// Output:
	// done
	// {Zoom:1.5 X:200 Y:100 DPR:1}
}

package scene

import (
	"errors"
	"log"

	"github.com/Carmen-Shannon/oxy-storefront/common"
	"github.com/Carmen-Shannon/oxy-storefront/engine/animation"
	"github.com/Carmen-Shannon/oxy-storefront/engine/game_object"
	"github.com/Carmen-Shannon/oxy-storefront/engine/loader"

	"github.com/go-gl/mathgl/mgl32"
)

var errEmptyModel = errors.New("loader returned no model")

func (s *session) SetObjects(specs []ObjectSpec) {
	st := s.state
	if st == nil {
		log.Printf("[Scene] SetObjects ignored: no live session")
		return
	}

	wanted := make(map[string]ObjectSpec, len(specs))
	var ordered []*pendingLoad
	for index, spec := range specs {
		if spec.ID == "" {
			continue
		}
		if _, dup := wanted[spec.ID]; dup {
			log.Printf("[Scene] duplicate object id %q, keeping the first", spec.ID)
			continue
		}
		wanted[spec.ID] = spec
		ordered = append(ordered, &pendingLoad{spec: spec, index: index})
	}

	// Removal runs before anything is placed.
	for id, obj := range st.objects {
		spec, ok := wanted[id]
		if ok && spec.URL == obj.ModelURL() {
			continue
		}
		s.removeObject(id)
	}
	for id, p := range st.pending {
		if spec, ok := wanted[id]; !ok || spec.URL != p.spec.URL {
			delete(st.pending, id)
		}
	}
	for id, url := range st.failed {
		if spec, ok := wanted[id]; !ok || spec.URL != url {
			delete(st.failed, id)
		}
	}

	newURLs := 0
	for _, entry := range ordered {
		spec := entry.spec
		if _, placed := st.objects[spec.ID]; placed || st.pending[spec.ID] != nil || st.failed[spec.ID] != "" {
			continue
		}
		if !st.seenURLs[spec.URL] {
			st.seenURLs[spec.URL] = true
			st.openURLs[spec.URL] = true
			newURLs++
		}
	}
	st.tracker.AddModels(newURLs)

	for _, entry := range ordered {
		spec := entry.spec
		if obj, placed := st.objects[spec.ID]; placed {
			s.reposition(obj, spec)
			continue
		}
		if p := st.pending[spec.ID]; p != nil {
			p.spec = spec
			p.index = entry.index
			continue
		}
		if st.failed[spec.ID] != "" {
			continue
		}
		s.loadObject(entry)
	}
}

// reposition moves a placed object to its configured position without reloading it.
// An entered object that was moved away from an unchanged configured position is moved back.
func (s *session) reposition(obj game_object.GameObject, spec ObjectSpec) {
	if obj.TargetPosition() == spec.Position && (!obj.EntranceComplete() || obj.Position() == spec.Position) {
		return
	}
	obj.SetTargetPosition(spec.Position)
	s.settle(obj)
	obj.SetPosition(spec.Position)
}

// settle stops the entrance of obj, leaving it at full size where it currently is.
func (s *session) settle(obj game_object.GameObject) {
	if s.state.scheduler.Cancel(obj.ID()) {
		size := obj.TargetScale()
		obj.SetScale(mgl32.Vec3{size, size, size})
	}
	obj.MarkEntranceComplete()
}

func (s *session) loadObject(p *pendingLoad) {
	st := s.state
	spec := p.spec
	st.pending[spec.ID] = p
	epoch := s.epoch

	s.loader.LoadModel(spec.URL, func(res loader.ModelResult) {
		if s.epoch != epoch || s.state == nil {
			return
		}
		st := s.state
		s.finishURL(spec.URL)
		if st.pending[spec.ID] != p {
			return
		}
		delete(st.pending, spec.ID)

		if res.Err == nil && res.Model == nil {
			res.Err = errEmptyModel
		}
		if res.Err != nil {
			log.Printf("[Scene] model %s for %q failed: %v", spec.URL, spec.ID, res.Err)
			st.failed[spec.ID] = spec.URL
			return
		}
		s.place(p, res)
	})
}

// place adds a loaded model to the scene and schedules its entrance.
func (s *session) place(p *pendingLoad, res loader.ModelResult) {
	st := s.state
	spec := p.spec
	obj := game_object.NewGameObject(spec.ID, spec.URL,
		game_object.WithPosition(spec.Position),
		game_object.WithSize(spec.Size),
	)
	obj.Attach(res.Model.Clone())
	st.root.Add(obj.Node())
	st.objects[spec.ID] = obj

	size := obj.TargetScale()
	st.scheduler.Schedule(spec.ID, animation.NewEntrance(obj, spec.Position, mgl32.Vec3{size, size, size}, s.clock(),
		animation.WithDelay(animation.StaggerDelay(p.index)),
		animation.WithOnComplete(obj.MarkEntranceComplete),
	))
	log.Printf("[Scene] placed %q (%s, cached=%t)", spec.ID, spec.URL, res.FromCache)
}

// finishURL counts the first completion of a URL towards the progress total.
func (s *session) finishURL(url string) {
	st := s.state
	if !st.openURLs[url] {
		return
	}
	delete(st.openURLs, url)
	st.tracker.MarkModel()
}

func (s *session) removeObject(id string) {
	st := s.state
	obj, ok := st.objects[id]
	if !ok {
		return
	}
	st.scheduler.Cancel(id)
	obj.Dispose()
	delete(st.objects, id)
	for _, fn := range s.onRemove {
		fn(id)
	}
	log.Printf("[Scene] removed %q", id)
}

func (s *session) ApplyRemotePosition(id string, pos common.Position) bool {
	st := s.state
	if st == nil {
		return false
	}
	if p := st.pending[id]; p != nil {
		p.spec.Position = pos.Vec3()
		return true
	}
	obj, ok := st.objects[id]
	if !ok {
		return false
	}
	s.settle(obj)
	obj.SetTargetPosition(pos.Vec3())
	obj.SetPosition(pos.Vec3())
	return true
}

func (s *session) SettleObject(id string) bool {
	if s.state == nil {
		return false
	}
	obj, ok := s.state.objects[id]
	if !ok {
		return false
	}
	s.settle(obj)
	return true
}

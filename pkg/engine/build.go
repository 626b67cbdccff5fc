package engine

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/softras/pkg/assets"
	"github.com/taigrr/softras/pkg/config"
	"github.com/taigrr/softras/pkg/math3d"
	"github.com/taigrr/softras/pkg/render"
	"github.com/taigrr/softras/pkg/scene"
)

// checkerSize is the side of generated checker textures.
const checkerSize = 64

// Build loads the scene described by cfg and returns an engine for it.
func Build(cfg *config.Config, loader *assets.Loader, logger *log.Logger) (*Engine, error) {
	sc, err := BuildScene(cfg, loader)
	if err != nil {
		return nil, err
	}
	e := New(cfg, sc, logger)
	e.logger.Info("scene ready", "entries", sc.Len(), "triangles", sc.TriangleCount())
	return e, nil
}

// BuildScene creates the quads and meshes of cfg. Texture and mesh files
// are decoded concurrently with loader, or a default Loader when nil, and
// entries are added in file order. The first load error aborts the build.
func BuildScene(cfg *config.Config, loader *assets.Loader) (*scene.Scene, error) {
	if loader == nil {
		loader = assets.NewLoader()
	}
	quads := make([]*scene.Quad, len(cfg.Quads))
	meshes := make([]*scene.Mesh, len(cfg.Meshes))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, qc := range cfg.Quads {
		g.Go(func() error {
			q, err := buildQuad(qc, loader)
			if err != nil {
				return fmt.Errorf("quad %d: %w", i, err)
			}
			quads[i] = q
			return nil
		})
	}
	for i, mc := range cfg.Meshes {
		g.Go(func() error {
			m, err := buildMesh(mc, loader)
			if err != nil {
				return fmt.Errorf("mesh %d: %w", i, err)
			}
			meshes[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sc := scene.New()
	for i, q := range quads {
		sc.Add(entryName(cfg.Quads[i].Name, "quad", i), q)
	}
	for i, m := range meshes {
		sc.Add(entryName(cfg.Meshes[i].Name, m.Name, i), m)
	}
	return sc, nil
}

func buildQuad(qc config.Quad, loader *assets.Loader) (*scene.Quad, error) {
	q := scene.NewQuad(qc.Dimensions())
	place(&q.Object, qc.Placement)

	switch {
	case qc.Texture != "":
		tex, err := loader.Load(qc.Texture)
		if err != nil {
			return nil, err
		}
		q.SetTexture(tex, qc.Texture)
	case qc.Checker > 0:
		q.SetTexture(render.NewCheckerTexture(checkerSize, qc.Checker, render.ColorLight, render.ColorDark), "")
	}

	tints, err := qc.Tints()
	if err != nil {
		return nil, err
	}
	if tints != nil {
		q.SetVertexColors(*tints)
	}
	return q, nil
}

func buildMesh(mc config.Mesh, loader *assets.Loader) (*scene.Mesh, error) {
	gl := scene.GLTFLoader{FitSize: mc.Fit}
	m, img, err := gl.Load(mc.Path)
	if err != nil {
		return nil, err
	}
	place(&m.Object, mc.Placement)

	switch {
	case mc.Texture != "":
		tex, err := loader.Load(mc.Texture)
		if err != nil {
			return nil, err
		}
		m.SetTexture(tex, mc.Texture)
	case img != nil:
		m.SetTexture(loader.FromImage(img), "")
	}
	return m, nil
}

// place copies a configured placement, converting degrees to radians.
func place(o *scene.Object, p config.Placement) {
	o.Position = vec3(p.Position)
	o.Rotation = vec3(p.Rotation).Scale(math3d.Radians(1))
	o.Spin = vec3(p.Spin).Scale(math3d.Radians(1))
	if p.Scale != [3]float64{} {
		o.Scale = vec3(p.Scale)
	}
}

func vec3(a [3]float64) math3d.Vec3 {
	return math3d.V3(a[0], a[1], a[2])
}

func entryName(name, fallback string, i int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%s-%d", fallback, i)
}

// Package skyrenderer draws the sky panorama and implements lighting.Sink
// over its shader uniforms.
package skyrenderer

import (
	"fmt"
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/skylight/internal/engine/shader"
	"github.com/Faultbox/skylight/internal/lighting"
	"github.com/Faultbox/skylight/internal/logger"
)

// MinAltitude is the lowest altitude shown, in radians.
const MinAltitude = -20 * math.Pi / 180

type lightUniforms struct {
	dir       [3]float32
	color     [3]float32
	intensity float32
}

// Renderer owns the sky program. Sink calls only record values; Draw
// uploads them.
type Renderer struct {
	program *shader.Program
	vao     uint32

	width, height int

	lights      [lighting.LightGround + 1]lightUniforms
	moonPresent bool
	phase       lighting.MoonPhase
	helpers     lighting.Helpers

	log *zap.Logger
}

var _ lighting.Sink = (*Renderer)(nil)

// New creates a renderer. Must be called after the GL context exists.
func New(width, height int) (*Renderer, error) {
	r := &Renderer{log: logger.Named("skyrenderer")}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	var err error
	r.program, err = shader.NewProgram(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("sky shader: %w", err)
	}

	// Core profile refuses draws without a bound VAO, even an empty one.
	gl.GenVertexArrays(1, &r.vao)

	gl.Disable(gl.DEPTH_TEST)
	gl.ClearColor(0, 0, 0, 1)
	r.Resize(width, height)
	return r, nil
}

// Close releases GL resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize updates the viewport.
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// SetDirection implements lighting.Sink.
func (r *Renderer) SetDirection(l lighting.Light, dir r3.Vec) {
	r.lights[l].dir = lighting.Float32(dir)
}

// SetIntensity implements lighting.Sink.
func (r *Renderer) SetIntensity(l lighting.Light, intensity float64) {
	r.lights[l].intensity = float32(intensity)
}

// SetColor implements lighting.Sink.
func (r *Renderer) SetColor(l lighting.Light, c lighting.Color) {
	r.lights[l].color = [3]float32{float32(c.R), float32(c.G), float32(c.B)}
}

// Update records the non-light parts of a snapshot: moon phase and helpers.
func (r *Renderer) Update(s lighting.State) {
	r.moonPresent = s.Moon != nil
	r.phase = s.Phase
	r.helpers = s.Helpers
}

// Draw renders one frame.
func (r *Renderer) Draw() {
	gl.Clear(gl.COLOR_BUFFER_BIT)

	p := r.program
	p.Use()
	p.SetFloat("uMinAltitude", MinAltitude)

	sun := r.lights[lighting.LightSun]
	p.SetVec3("uSunDir", sun.dir)
	p.SetVec3("uSunColor", sun.color)
	p.SetFloat("uSunIntensity", sun.intensity)

	moon := r.lights[lighting.LightMoon]
	p.SetInt("uMoonPresent", boolInt(r.moonPresent))
	p.SetVec3("uMoonDir", moon.dir)
	p.SetVec3("uMoonColor", moon.color)
	p.SetFloat("uMoonIntensity", moon.intensity)
	p.SetFloat("uMoonIllumination", float32(r.phase.Illumination))

	amb := r.lights[lighting.LightAmbient]
	p.SetVec3("uAmbientColor", amb.color)
	p.SetFloat("uAmbientIntensity", amb.intensity)

	p.SetVec3("uSkyColor", r.lights[lighting.LightSky].color)
	p.SetFloat("uSkyIntensity", r.lights[lighting.LightSky].intensity)
	p.SetVec3("uGroundColor", r.lights[lighting.LightGround].color)

	p.SetInt("uHelperSun", boolInt(r.helpers.Sun))
	p.SetInt("uHelperMoon", boolInt(r.helpers.Moon))

	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
}

// ReadPixels returns the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	pixels := make([]byte, r.width*r.height*4)
	gl.ReadPixels(0, 0, int32(r.width), int32(r.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, r.width, r.height
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

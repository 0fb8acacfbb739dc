package shadow

import "errors"

type fakeTexture struct {
	target   Target
	size     int
	format   Format
	released bool
}

func (t *fakeTexture) Target() Target { return t.target }
func (t *fakeTexture) Size() int      { return t.size }
func (t *fakeTexture) Format() Format { return t.format }
func (t *fakeTexture) Release()       { t.released = true }

type fakeProvider struct {
	created []*fakeTexture
	fail    bool
}

func (p *fakeProvider) CreateTexture(target Target, size int, format Format) (Texture, error) {
	if p.fail {
		return nil, errors.New("out of memory")
	}
	tex := &fakeTexture{target: target, size: size, format: format}
	p.created = append(p.created, tex)
	return tex, nil
}

func (p *fakeProvider) live() int {
	n := 0
	for _, tex := range p.created {
		if !tex.released {
			n++
		}
	}
	return n
}

type fakeRenderable struct {
	pool *fakePool
	tex  *fakeTexture
}

func (r *fakeRenderable) Texture() Texture { return r.tex }
func (r *fakeRenderable) Release()         { r.pool.inUse-- }

type fakePool struct {
	obtained int
	inUse    int
}

func (p *fakePool) Obtain(target Target, size int, format Format) (Renderable, error) {
	p.obtained++
	p.inUse++
	return &fakeRenderable{pool: p, tex: &fakeTexture{target: target, size: size, format: format}}, nil
}

func newTestResources() (Resources, *fakeProvider, *fakePool) {
	provider := &fakeProvider{}
	pool := &fakePool{}
	return Resources{Textures: provider, Pool: pool}, provider, pool
}

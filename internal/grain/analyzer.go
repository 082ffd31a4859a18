package grain

import (
	"image"
)

// Pipeline is the pure-Go Analyzer.
type Pipeline struct {
	Params Params
}

// NewPipeline validates params and returns a pipeline using them.
func NewPipeline(params Params) (*Pipeline, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{Params: params}, nil
}

// NewAnalyzer returns the native pipeline as an Analyzer.
func NewAnalyzer(params Params) (Analyzer, error) {
	p, err := NewPipeline(params)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Stages holds every intermediate product of one pipeline run.
type Stages struct {
	Filtered  *image.Gray // median filtered
	Equalized *image.Gray
	Threshold uint8
	Binary    *Mask
	Cleaned   *Mask
	Labels    *LabelMap
	Regions   []Region
	Grains    []Grain
}

// Analyze runs the full pipeline on img.
func (p *Pipeline) Analyze(img *image.Gray) (*Result, error) {
	s, err := p.Run(img)
	if err != nil {
		return nil, err
	}
	return &Result{
		Grains:      s.Grains,
		Equalized:   s.Equalized,
		Threshold:   s.Threshold,
		Labels:      s.Labels,
		RegionCount: len(s.Regions),
		Params:      p.Params,
	}, nil
}

// Run is Analyze, but keeps every intermediate stage.
func (p *Pipeline) Run(img *image.Gray) (*Stages, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}
	s := &Stages{}
	s.Filtered = MedianFilter(img, MedianWindow)
	s.Equalized = EqualizeHistogram(s.Filtered)
	s.Binary, s.Threshold = Segment(s.Equalized, p.Params.Polarity)
	s.Cleaned = Clean(s.Binary)
	s.Labels = Label(s.Cleaned)
	s.Regions = Regions(s.Labels)
	s.Grains = FilterGrains(s.Regions, p.Params)
	return s, nil
}

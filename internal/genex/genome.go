package genex

import "fmt"

// GeneTemplate describes one gene on a genome: its coding interval and
// the ribosome binding site upstream of it. Templates are stamped onto
// every transcript whose synthesized region reaches them.
type GeneTemplate struct {
	Name        string
	Start       int
	Stop        int
	RBSStart    int
	RBSStop     int
	RBSStrength float64
}

// Genome is the polymer polymerases transcribe. Binding a polymerase
// also constructs the nascent transcript it will synthesize; the
// transcript's mask recedes in lockstep with the polymerase, exposing
// ribosome binding sites and stop codons as they are produced.
type Genome struct {
	Polymer

	genes             []GeneTemplate
	promoterBindings  map[string]map[string]float64
	transcriptWeights []float64
	transcriptDegrade float64
	transcriptCount   int

	// onTranscript lets the simulation wire a freshly built transcript
	// into its reaction list before any ribosome can see it.
	onTranscript func(t *Transcript) error
}

// NewGenome creates a genome spanning [0, length). A positive
// transcriptDegradationRate marks every produced transcript for
// removal once its last ribosome leaves.
func NewGenome(name string, length int, transcriptDegradationRate float64) *Genome {
	g := &Genome{
		Polymer:           newPolymer(name, 0, length),
		promoterBindings:  make(map[string]map[string]float64),
		transcriptDegrade: transcriptDegradationRate,
	}
	g.attachFn = g.attachTranscript
	return g
}

// AddPromoter registers a promoter site. Interactions maps polymerase
// type names to their binding rate constants; the simulation reads
// them back through Bindings to build the bind reactions.
func (g *Genome) AddPromoter(name string, start, stop int, interactions map[string]float64) *BindingSite {
	site := &BindingSite{
		Feature:      Feature{Name: name, Start: start, Stop: stop},
		Interactions: interactions,
	}
	g.AddBindingSite(site)
	if interactions != nil {
		g.promoterBindings[name] = interactions
	}
	return site
}

// AddTerminator registers a terminator site. Efficiency maps
// polymerase type names to termination probabilities; types absent
// from the map read through unconditionally.
func (g *Genome) AddTerminator(name string, start, stop int, efficiency map[string]float64) *ReleaseSite {
	site := &ReleaseSite{
		Feature:      Feature{Name: name, Start: start, Stop: stop},
		Efficiency:   efficiency,
		ReadingFrame: -1,
	}
	g.AddReleaseSite(site)
	return site
}

// AddGene registers a gene template. The coding interval and its
// ribosome binding site are materialized on transcripts, not on the
// genome itself.
func (g *Genome) AddGene(name string, start, stop, rbsStart, rbsStop int, rbsStrength float64) {
	g.genes = append(g.genes, GeneTemplate{
		Name:        name,
		Start:       start,
		Stop:        stop,
		RBSStart:    rbsStart,
		RBSStop:     rbsStop,
		RBSStrength: rbsStrength,
	})
}

// AddMask covers the genome from start to its end; the listed
// polymerase types push the mask ahead of themselves as they
// transcribe.
func (g *Genome) AddMask(start int, shiftBy []string) {
	g.SetMask(NewMask(start, g.Stop, shiftBy))
}

// SetTranscriptWeights installs the per-position movement weights
// applied to every produced transcript.
func (g *Genome) SetTranscriptWeights(weights []float64) {
	g.transcriptWeights = weights
}

// SetTranscriptFunc registers the callback run for every freshly built
// transcript, before the producing polymerase takes its first step.
func (g *Genome) SetTranscriptFunc(fn func(t *Transcript) error) {
	g.onTranscript = fn
}

// Bindings returns promoter name to polymerase interaction rates, as
// registered through AddPromoter.
func (g *Genome) Bindings() map[string]map[string]float64 {
	return g.promoterBindings
}

// Genes returns the registered gene templates.
func (g *Genome) Genes() []GeneTemplate { return g.genes }

func (g *Genome) attachTranscript(el *MobileElement) (attachedPolymer, error) {
	t, err := g.buildTranscript(el.Start, g.Stop)
	if err != nil {
		return nil, err
	}
	if g.onTranscript != nil {
		if err := g.onTranscript(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// buildTranscript stamps every gene template inside [start, stop) onto
// a fresh transcript, fully masked; the polymerase exposes it base by
// base.
func (g *Genome) buildTranscript(start, stop int) (*Transcript, error) {
	name := fmt.Sprintf("%s.rna.%d", g.Name, g.transcriptCount)
	t := NewTranscript(name, start, g.Stop)

	count := 0
	for _, gene := range g.genes {
		if gene.RBSStart < start || gene.Stop > stop {
			continue
		}
		t.AddBindingSite(&BindingSite{
			Feature: Feature{Name: RBSName, Start: gene.RBSStart, Stop: gene.RBSStop},
			Gene:    gene.Name,
		})
		t.AddReleaseSite(&ReleaseSite{
			Feature:      Feature{Name: StopSiteName, Start: gene.Stop - 1, Stop: gene.Stop},
			Gene:         gene.Name,
			ReadingFrame: -1,
		})
		t.genes = append(t.genes, gene.Name)
		count++
	}
	if count == 0 {
		return nil, &InvariantError{
			Invariant: "transcript carries at least one gene",
			Entity:    name,
			Detail:    fmt.Sprintf("no gene template inside [%d, %d)", start, stop),
		}
	}

	t.SetMask(NewMask(start, g.Stop, nil))
	t.SetWeights(g.transcriptWeights)
	t.SetDegrade(g.transcriptDegrade > 0)
	t.SetContext(g.tracker, g.logger)
	if err := t.Initialize(); err != nil {
		return nil, err
	}
	g.transcriptCount++
	return t, nil
}

// Transcript is the polymer ribosomes translate. It is produced by a
// genome polymerase and shares all polymer mechanics; binding
// additionally books the ribosome against the gene whose binding site
// accepted it.
type Transcript struct {
	Polymer
	genes []string
}

// NewTranscript creates a bare transcript spanning [start, stop).
func NewTranscript(name string, start, stop int) *Transcript {
	t := &Transcript{Polymer: newPolymer(name, start, stop)}
	return t
}

// Genes returns the gene names carried by this transcript, in
// position order.
func (t *Transcript) Genes() []string { return t.genes }

// Bind places a ribosome on a free binding site and attributes it to
// that site's gene. The ribosome picks up the site's reading frame for
// frame-sensitive termination.
func (t *Transcript) Bind(el *MobileElement, promoter string) (bool, error) {
	site, err := t.bind(el, promoter)
	if err != nil || site == nil {
		return false, err
	}
	el.ReadingFrame = site.Start % 3
	return true, t.tracker.IncrementRibo(site.Gene, 1)
}

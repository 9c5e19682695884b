package flowyaml

// rawFlow mirrors the YAML surface of spec.md §6 before any default-filling
// or expression lowering. Scalar fields that may alternately be a
// "${{ ... }}" template are typed `any` (decoded as whatever scalar shape
// the YAML node has — string, int, float, bool) and converted to source
// strings by asString, the same way the teacher's Job.Needs field accepts
// either a bare string or a list and is type-switched in
// ExtractJobInfo.
type rawFlow struct {
	Kind     string               `yaml:"kind"`
	ID       string               `yaml:"id"`
	Title    string               `yaml:"title"`
	Images   map[string]rawImage  `yaml:"images"`
	Volumes  map[string]rawVolume `yaml:"volumes"`
	Defaults *rawDefaults         `yaml:"defaults"`
	Jobs     map[string]rawJob    `yaml:"jobs"`
}

type rawImage struct {
	URI        any               `yaml:"uri"`
	Context    any               `yaml:"context"`
	Dockerfile any               `yaml:"dockerfile"`
	BuildArgs  map[string]any    `yaml:"build-args"`
	Env        map[string]any    `yaml:"env"`
	Preset     any               `yaml:"preset"`
	ForceBuild any               `yaml:"force-rebuild"`
}

type rawVolume struct {
	URI   any  `yaml:"uri"`
	Mount any  `yaml:"mount"`
	RO    *any `yaml:"ro"`
	Local any  `yaml:"local"`
}

type rawDefaults struct {
	Tags     []string       `yaml:"tags"`
	Env      map[string]any `yaml:"env"`
	Workdir  any            `yaml:"workdir"`
	LifeSpan any            `yaml:"life-span"`
}

type rawJob struct {
	Title           any            `yaml:"title"`
	Name            any            `yaml:"name"`
	Image           any            `yaml:"image"`
	Preset          any            `yaml:"preset"`
	Entrypoint      any            `yaml:"entrypoint"`
	Cmd             any            `yaml:"cmd"`
	Workdir         any            `yaml:"workdir"`
	Env             map[string]any `yaml:"env"`
	Volumes         []string       `yaml:"volumes"`
	Tags            []string       `yaml:"tags"`
	LifeSpan        any            `yaml:"life-span"`
	HTTPPort        any            `yaml:"http-port"`
	HTTPAuth        *any           `yaml:"http-auth"`
	ScheduleTimeout any            `yaml:"schedule-timeout"`
	PortForward     []string       `yaml:"port-forward"`
	PassConfig      *any           `yaml:"pass-config"`
	Detach          *any           `yaml:"detach"`
	Browse          *any           `yaml:"browse"`
	Multi           *any           `yaml:"multi"`
}

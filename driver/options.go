package driver

// Options is the EAL-style configuration builder spec.md §6 names
// DpdkOption: chained setters terminated by Init, directly modeled on
// original_source/rpkt-dpdk's DpdkOption::new().args(...).init() usage.
// Env inheritance of hugepage/driver settings is the native runtime's
// concern (spec.md §6); HugepageDir is recorded on the builder but is
// not interpreted here and is not handed to the runtime by Init, which
// passes only the accumulated Args.
type Options struct {
	args        []string
	coreMask    uint64
	hugepageDir string
}

// NewOptions starts a fresh builder with no args, no cores requested,
// and the runtime's default hugepage directory.
func NewOptions() *Options { return &Options{} }

// Args appends EAL-style command-line arguments, applied in order.
func (o *Options) Args(args ...string) *Options {
	o.args = append(o.args, args...)
	return o
}

// CoreMask records the bitmask of cores requested for this process; bit
// i set means core i is requested. Init logs it; Service.LcoreBind and
// Service.Lcores do not consult it.
func (o *Options) CoreMask(mask uint64) *Options {
	o.coreMask = mask
	return o
}

// HugepageDir overrides the hugepage mountpoint the native runtime
// allocates mempool backing memory from.
func (o *Options) HugepageDir(dir string) *Options {
	o.hugepageDir = dir
	return o
}

// Init is the terminal call: it hands the accumulated options to
// newService, which performs the actual runtime_init call.
func (o *Options) Init() (*Service, error) {
	return newService(o)
}

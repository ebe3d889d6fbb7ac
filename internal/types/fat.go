package types

// DefaultFatThreshold is the size in bytes above which a record is fat.
const DefaultFatThreshold = 64

// DefaultHandleTypes are reference-counted wrappers that are cheap to bind
// by reference but expensive to copy, whatever their size.
var DefaultHandleTypes = []string{
	"com::sun::star::uno::Reference",
	"com::sun::star::uno::Sequence",
	"rtl::OString",
	"rtl::OUString",
	"rtl::Reference",
}

// FatPolicy decides which parameter types should be passed by reference.
type FatPolicy struct {
	Threshold int64
	Handles   []string
}

func DefaultFatPolicy() FatPolicy {
	return FatPolicy{
		Threshold: DefaultFatThreshold,
		Handles:   append([]string(nil), DefaultHandleTypes...),
	}
}

// IsFat reports whether values of type q are worth passing by reference.
// Only records qualify; handle types always do, other records when they are
// complete and larger than the threshold.
func (p FatPolicy) IsFat(q QualType) bool {
	if !IsRecord(q) {
		return false
	}
	for _, h := range p.Handles {
		if RecordMatches(q, h) {
			return true
		}
	}
	if IsIncomplete(q) {
		return false
	}
	size, ok := SizeOf(q)
	return ok && size > p.Threshold
}

package rsfec

// SPDX-FileCopyrightText: 2007 Jim McGuire KB3MPL
// SPDX-FileCopyrightText: The Samoyed Authors

import (
	"fmt"
	"io"
	"math/bits"
	"slices"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

/*
 * A profile names one shortened code, RS(k+t, k) over GF(2^m), and the
 * 64 bit correlation tag that introduces its blocks.
 *
 * The tag values are the FX.25 set.  Any two of them differ in exactly
 * 32 bits so a tag can be recognized with a fair number of bit errors.
 * The block layout after the tag is our own (see block.go), so this is
 * not an FX.25 implementation.
 */

const TAG_MIN = 0x01
const TAG_MAX = 0x0B

// Slots with a tag value but no built in code.  Profiles loaded from a
// file get these unless they bring their own tag value.
const TAG_SPARE_MIN = 0x0C
const TAG_SPARE_MAX = 0x0F

const CLOSE_ENOUGH = 8 // How many bits can be wrong in tag yet consider it a match?
// Needs to be large enough to match with significant errors
// but not so large to get frequent false matches.
// Half the minimum distance between tags keeps matches unambiguous.

var tagValues = [16]uint64{
	0x566ED2717946107E, // Reserved
	0xB74DB7DF8A532F3E,
	0x26FF60A600CC8FDE,
	0xC7DC0508F3D9B09E,
	0x8F056EB4369660EE,
	0x6E260B1AC5835FAE,
	0xFF94DC634F1CFF4E,
	0x1EB7B9CDBC09C00E,
	0xDBF869BD2DBB1776,
	0x3ADB0C13DEAE2836,
	0xAB69DB6A543188D6,
	0x4A4ABEC4A724B796,
	0x0293D578626B67E6,
	0xE3B0B0D6917E58A6,
	0x720267AF1BE1F846,
	0x93210201E8F4C706,
}

type Profile struct {
	Name   string
	Number int    // Tag number.
	Tag    uint64 // Sent LSB first.
	M      int    // Bits per symbol.
	T      int    // Parity symbols.
	K      int    // Data symbols.
}

// N is the block length.
func (p Profile) N() int {
	return p.K + p.T
}

func (p Profile) String() string {
	return fmt.Sprintf("%s (tag 0x%02x, GF(2^%d), %d data, %d check)", p.Name, p.Number, p.M, p.K, p.T)
}

// Codec returns the shared codec for the profile's symbol size and parity.
func (p Profile) Codec() (*Codec, error) {
	return codecFor(p.M, p.T)
}

func (p Profile) validate() error {
	if p.M < 1 || p.M > MaxSymbolBits || p.T < 1 || p.K < 1 || p.K+p.T > (1<<p.M)-1 {
		return errors.Wrapf(ErrUnsupportedParameters, "profile %q: m=%d t=%d k=%d", p.Name, p.M, p.T, p.K)
	}
	return nil
}

func builtinProfile(number int, k int, t int) Profile {
	return Profile{
		Name:   fmt.Sprintf("RS(%d,%d)", k+t, k),
		Number: number,
		Tag:    tagValues[number],
		M:      8,
		T:      t,
		K:      k,
	}
}

var builtinProfiles = []Profile{
	builtinProfile(0x01, 239, 16), // RS(255, 239) 16-byte check value, 239 information bytes
	builtinProfile(0x02, 128, 16), // RS(144,128) - shortened RS(255, 239), 128 info bytes
	builtinProfile(0x03, 64, 16),  // RS(80,64) - shortened RS(255, 239), 64 info bytes
	builtinProfile(0x04, 32, 16),  // RS(48,32) - shortened RS(255, 239), 32 info bytes

	builtinProfile(0x05, 223, 32), // RS(255, 223) 32-byte check value, 223 information bytes
	builtinProfile(0x06, 128, 32), // RS(160,128) - shortened RS(255, 223), 128 info bytes
	builtinProfile(0x07, 64, 32),  // RS(96,64) - shortened RS(255, 223), 64 info bytes
	builtinProfile(0x08, 32, 32),  // RS(64,32) - shortened RS(255, 223), 32 info bytes

	builtinProfile(0x09, 191, 64), // RS(255, 191) 64-byte check value, 191 information bytes
	builtinProfile(0x0A, 128, 64), // RS(192, 128) - shortened RS(255, 191), 128 info bytes
	builtinProfile(0x0B, 64, 64),  // RS(128, 64) - shortened RS(255, 191), 64 info bytes
}

// Verify integrity of tables and assumptions.
func init() {
	for j := range tagValues {
		for k := range tagValues {
			if j == k {
				Assert(bits.OnesCount64(tagValues[j]^tagValues[k]) == 0)
			} else {
				Assert(bits.OnesCount64(tagValues[j]^tagValues[k]) == 32)
			}
		}
	}

	for _, p := range builtinProfiles {
		Assert(p.validate() == nil)
		Assert(p.Tag == tagValues[p.Number])
	}
}

/*-------------------------------------------------------------
 *
 * Name:	ProfileSet
 *
 * Purpose:	The built in profiles plus any loaded from a file.
 *
 *--------------------------------------------------------------*/

type ProfileSet struct {
	mu       sync.RWMutex
	profiles []Profile
}

// NewProfileSet returns a set holding only the built in profiles.
func NewProfileSet() *ProfileSet {
	return &ProfileSet{profiles: slices.Clone(builtinProfiles)}
}

func (ps *ProfileSet) All() []Profile {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return slices.Clone(ps.profiles)
}

// Add checks p and adds it.  A zero Tag takes the next spare tag slot.
func (ps *ProfileSet) Add(p Profile) (Profile, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if err := p.validate(); err != nil {
		return p, err
	}

	if p.Name == "" {
		return p, errors.New("profile without a name")
	}

	for _, q := range ps.profiles {
		if q.Name == p.Name {
			return p, errors.Errorf("profile %q already defined", p.Name)
		}
	}

	if p.Tag == 0 {
		var used = make(map[uint64]bool)
		for _, q := range ps.profiles {
			used[q.Tag] = true
		}
		for n := TAG_SPARE_MIN; n <= TAG_SPARE_MAX; n++ {
			if !used[tagValues[n]] {
				p.Number = n
				p.Tag = tagValues[n]
				break
			}
		}
		if p.Tag == 0 {
			return p, errors.Errorf("profile %q: no spare tag left, supply one", p.Name)
		}
	} else {
		p.Number = TAG_SPARE_MAX + 1 + len(ps.profiles)
		if bits.OnesCount64(p.Tag^tagValues[0]) <= 2*CLOSE_ENOUGH {
			return p, errors.Errorf("profile %q: tag 0x%016X is too close to the reserved tag", p.Name, p.Tag)
		}
	}

	for _, q := range ps.profiles {
		if bits.OnesCount64(p.Tag^q.Tag) <= 2*CLOSE_ENOUGH {
			return p, errors.Errorf("profile %q: tag 0x%016X is too close to the tag of %q", p.Name, p.Tag, q.Name)
		}
	}

	ps.profiles = append(ps.profiles, p)

	return p, nil
}

func (ps *ProfileSet) ByName(name string) (Profile, error) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for _, p := range ps.profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, errors.Wrapf(ErrUnknownProfile, "name %q", name)
}

func (ps *ProfileSet) ByNumber(number int) (Profile, error) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for _, p := range ps.profiles {
		if p.Number == number {
			return p, nil
		}
	}
	return Profile{}, errors.Wrapf(ErrUnknownProfile, "tag number 0x%02x", number)
}

// MatchTag finds the profile whose tag is within CLOSE_ENOUGH bits of t.
// Also returns the number of bits that were wrong.
func (ps *ProfileSet) MatchTag(t uint64) (Profile, int, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for _, p := range ps.profiles {
		var d = bits.OnesCount64(t ^ p.Tag)
		if d <= CLOSE_ENOUGH {
			return p, d, true
		}
	}
	return Profile{}, 0, false
}

/*-------------------------------------------------------------
 *
 * Name:	Pick
 *
 * Purpose:	Pick suitable profile based on user preference
 *		and size of data part required.
 *
 * Inputs:	mode	- 0 = none.
 *			1 = pick a tag automatically.
 *			16, 32, 64 = use this many check bytes.
 *			100 + n = use tag n.
 *
 *		dlen - 	Required size for the data part, in bytes.
 *
 * Returns:	ErrUnknownProfile when nothing fits.
 *
 *--------------------------------------------------------------*/

func (ps *ProfileSet) Pick(mode int, dlen int) (Profile, error) {
	if mode <= 0 {
		return Profile{}, errors.Wrap(ErrUnknownProfile, "FEC disabled")
	}

	// Specify a specific tag by adding 100 to the number.
	// Fails if data won't fit.

	if mode >= 100 {
		var p, err = ps.ByNumber(mode - 100)
		if err != nil {
			return p, err
		}
		if dlen > p.K {
			return Profile{}, errors.Wrapf(ErrUnknownProfile, "%d data bytes do not fit in %s", dlen, p)
		}
		return p, nil
	}

	ps.mu.RLock()
	defer ps.mu.RUnlock()

	// Specify number of check bytes.
	// Pick the shortest one that can handle the required data length.

	if mode != 1 {
		var best Profile
		var found = false
		for _, p := range ps.profiles {
			if p.M == 8 && p.T == mode && dlen <= p.K && (!found || p.K < best.K) {
				best = p
				found = true
			}
		}
		if !found {
			return Profile{}, errors.Wrapf(ErrUnknownProfile, "no profile with %d check bytes for %d data bytes", mode, dlen)
		}
		return best, nil
	}

	// For shorter frames, use smaller overhead.  For longer frames,
	// where an error is more probable, use more check bytes.  When
	// the data gets even larger, check bytes must be reduced to fit
	// in block size.
	//
	//	Tag 	Data 	Check 	Max Num
	//	Number	Bytes	Bytes	Repaired
	//	------	-----	-----	-----
	//	0x04	32	16	8
	//	0x03	64	16	8
	//	0x06	128	32	16
	//	0x09	191	64	32
	//	0x05	223	32	16
	//	0x01	239	16	8
	//	none	larger

	var prefer = [6]int{0x04, 0x03, 0x06, 0x09, 0x05, 0x01}
	for _, n := range prefer {
		var i = slices.IndexFunc(ps.profiles, func(p Profile) bool { return p.Number == n })
		if i >= 0 && dlen <= ps.profiles[i].K {
			return ps.profiles[i], nil
		}
	}
	return Profile{}, errors.Wrapf(ErrUnknownProfile, "%d data bytes is larger than any block", dlen)
}

// Layout of a profiles file:
//
//	profiles:
//	  - name: sensor
//	    m: 4
//	    t: 4
//	    k: 11
//	    tag: 0x0293D578626B67E6   # optional
type profileFile struct {
	Profiles []struct {
		Name string `yaml:"name"`
		M    int    `yaml:"m"`
		T    int    `yaml:"t"`
		K    int    `yaml:"k"`
		Tag  uint64 `yaml:"tag"`
	} `yaml:"profiles"`
}

// LoadProfiles reads a YAML profiles file and adds every entry to ps.
func (ps *ProfileSet) LoadProfiles(r io.Reader) ([]Profile, error) {
	var dec = yaml.NewDecoder(r)
	dec.KnownFields(true)

	var pf profileFile
	if err := dec.Decode(&pf); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "parsing profiles")
	}

	var added []Profile
	for _, e := range pf.Profiles {
		var p, err = ps.Add(Profile{Name: e.Name, M: e.M, T: e.T, K: e.K, Tag: e.Tag})
		if err != nil {
			return added, err
		}
		added = append(added, p)
	}

	return added, nil
}

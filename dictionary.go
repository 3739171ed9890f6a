package avshim

import (
	"strings"
	"unsafe"
)

// Dictionary is an AVDictionary of string options, as taken by
// avformat_open_input and friends. The zero value is an empty dictionary
// ready to use; once Set has succeeded it must be released with Free.
type Dictionary struct {
	m unsafe.Pointer // AVDictionary*, nil while empty
}

// DictionaryEntry is one key/value pair of a Dictionary.
type DictionaryEntry struct {
	Key   string
	Value string
}

// dictEntry mirrors AVDictionaryEntry, unchanged since FFmpeg 1.0.
type dictEntry struct {
	key   *byte
	value *byte
}

// Pointer returns the underlying AVDictionary pointer, nil while empty.
func (d *Dictionary) Pointer() unsafe.Pointer { return d.m }

// Set adds key=value, replacing an existing value for key.
func (d *Dictionary) Set(key, value string) error {
	if err := loadNative(); err != nil {
		return err
	}
	return CheckError(nativeDictSet(&d.m, key, value, 0))
}

// Get returns the value for key. Keys match case-insensitively, as
// av_dict_get does without DictMatchCase.
func (d *Dictionary) Get(key string) (string, bool) {
	if d.m == nil {
		return "", false
	}
	e := nativeDictGet(d.m, key, nil, 0)
	if e == nil {
		return "", false
	}
	return cString((*dictEntry)(e).value), true
}

// Count returns the number of entries.
func (d *Dictionary) Count() int {
	if d.m == nil {
		return 0
	}
	return nativeDictCount(d.m)
}

// Entries copies every entry out in insertion order.
func (d *Dictionary) Entries() []DictionaryEntry {
	if d.m == nil {
		return nil
	}
	entries := make([]DictionaryEntry, 0, d.Count())
	var prev unsafe.Pointer
	for {
		// An empty key with DictIgnoreSuffix matches every entry.
		prev = nativeDictGet(d.m, "", prev, DictIgnoreSuffix)
		if prev == nil {
			return entries
		}
		e := (*dictEntry)(prev)
		entries = append(entries, DictionaryEntry{Key: cString(e.key), Value: cString(e.value)})
	}
}

// String formats the entries as "k1=v1, k2=v2".
func (d *Dictionary) String() string {
	var b strings.Builder
	for i, e := range d.Entries() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.Key)
		b.WriteByte('=')
		b.WriteString(e.Value)
	}
	return b.String()
}

// Free releases every entry with av_dict_free. The dictionary is empty
// and reusable afterwards.
func (d *Dictionary) Free() {
	if d.m == nil {
		return
	}
	nativeDictFree(&d.m)
	d.m = nil
}

// cString copies a NUL-terminated string owned by FFmpeg.
func cString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}

// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package badger

import (
	"encoding/binary"

	"github.com/poiesic/manualqa/core"
)

const (
	indexPrefix  = "vidx:"
	recordPrefix = "vrec:"
	seqPrefix    = "vseq:"
)

// makeIndexKey generates the key holding an index's metadata.
func makeIndexKey(name string) []byte {
	return []byte(indexPrefix + name)
}

// makeRecordPrefix generates the prefix shared by every record of an index.
// Format: prefix:name:
func makeRecordPrefix(name string) []byte {
	return []byte(recordPrefix + name + ":")
}

// makeRecordKey generates a record key.
// Format: prefix:name:id, id in BigEndian so records iterate in insertion order.
func makeRecordKey(name string, id core.ID) []byte {
	prefix := makeRecordPrefix(name)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeSeqKey generates the key of an index's ID sequence.
func makeSeqKey(name string) []byte {
	return []byte(seqPrefix + name)
}

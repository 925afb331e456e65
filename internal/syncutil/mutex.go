// Copyright 2026 The PacketForge Project Contributors.
// SPDX-License-Identifier: Apache-2.0
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

//go:build !deadlock

// Package syncutil selects between the standard library mutexes and the
// go-deadlock instrumented ones. The default build has zero overhead;
// build with -tags=deadlock while debugging lock ordering between the
// event and polled contexts.
package syncutil

import "sync"

// Mutex is sync.Mutex in the default build.
type Mutex = sync.Mutex

// RWMutex is sync.RWMutex in the default build.
type RWMutex = sync.RWMutex

/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package htpasswd

import "crypto/md5"

const apr1ItoA64 = "./0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// apr1Crypt implements Apache's APR1 variant of the MD5-crypt algorithm, the
// format htpasswd -m produces. salt excludes the "$apr1$" prefix.
func apr1Crypt(password, salt string) string {
	if len(salt) > 8 {
		salt = salt[:8]
	}

	ctx := md5.New()
	ctx.Write([]byte(password))
	ctx.Write([]byte("$apr1$"))
	ctx.Write([]byte(salt))

	ctx2 := md5.New()
	ctx2.Write([]byte(password))
	ctx2.Write([]byte(salt))
	ctx2.Write([]byte(password))
	digest2 := ctx2.Sum(nil)

	for i := len(password); i > 0; i -= 16 {
		n := i
		if n > 16 {
			n = 16
		}
		ctx.Write(digest2[:n])
	}

	for i := len(password); i != 0; i >>= 1 {
		if i&1 != 0 {
			ctx.Write([]byte{0})
		} else {
			ctx.Write([]byte(password[:1]))
		}
	}

	final := ctx.Sum(nil)

	for i := 0; i < 1000; i++ {
		c := md5.New()
		if i&1 != 0 {
			c.Write([]byte(password))
		} else {
			c.Write(final)
		}
		if i%3 != 0 {
			c.Write([]byte(salt))
		}
		if i%7 != 0 {
			c.Write([]byte(password))
		}
		if i&1 != 0 {
			c.Write(final)
		} else {
			c.Write([]byte(password))
		}
		final = c.Sum(nil)
	}

	buf := make([]byte, 0, 22)
	buf = apr1To64(buf, uint32(final[0])<<16|uint32(final[6])<<8|uint32(final[12]), 4)
	buf = apr1To64(buf, uint32(final[1])<<16|uint32(final[7])<<8|uint32(final[13]), 4)
	buf = apr1To64(buf, uint32(final[2])<<16|uint32(final[8])<<8|uint32(final[14]), 4)
	buf = apr1To64(buf, uint32(final[3])<<16|uint32(final[9])<<8|uint32(final[15]), 4)
	buf = apr1To64(buf, uint32(final[4])<<16|uint32(final[10])<<8|uint32(final[5]), 4)
	buf = apr1To64(buf, uint32(final[11]), 2)

	return "$apr1$" + salt + "$" + string(buf)
}

func apr1To64(buf []byte, v uint32, n int) []byte {
	for i := 0; i < n; i++ {
		buf = append(buf, apr1ItoA64[v&0x3f])
		v >>= 6
	}
	return buf
}

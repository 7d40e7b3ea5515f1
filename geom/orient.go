// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package geom

import "github.com/pkg/errors"

// An Orientation is a quarter-turn rotation combined with an optional
// vertical mirroring, applied mirror first. It describes how a chip is
// placed on the board relative to its unrotated descriptor.
//
type Orientation struct {
	rotate uint8 // quarter turns clockwise, 0..3
	mirror bool
}

// OrientNormal is the identity orientation.
var OrientNormal = Orientation{}

// IsMirrored reports whether the orientation includes a mirroring.
func (o Orientation) IsMirrored() bool { return o.mirror }

// IsRotated reports whether the orientation swaps width and height.
func (o Orientation) IsRotated() bool { return o.rotate%2 != 0 }

// RotateCW returns the orientation turned a further quarter turn clockwise.
func (o Orientation) RotateCW() Orientation {
	return Orientation{rotate: (o.rotate + 1) % 4, mirror: o.mirror}
}

// RotateCCW returns the orientation turned a quarter turn counterclockwise.
func (o Orientation) RotateCCW() Orientation {
	return Orientation{rotate: (o.rotate + 3) % 4, mirror: o.mirror}
}

// FlipVert returns the orientation mirrored across the horizontal axis.
func (o Orientation) FlipVert() Orientation {
	r := o.rotate
	if r%2 != 0 {
		r = (r + 2) % 4
	}
	return Orientation{rotate: r, mirror: !o.mirror}
}

// FlipHorz returns the orientation mirrored across the vertical axis.
func (o Orientation) FlipHorz() Orientation {
	r := o.rotate
	if r%2 == 0 {
		r = (r + 2) % 4
	}
	return Orientation{rotate: r, mirror: !o.mirror}
}

// Compose applies o after p, returning the combined orientation.
func (o Orientation) Compose(p Orientation) Orientation {
	if o.mirror {
		p = p.FlipVert()
	}
	p.rotate = (p.rotate + o.rotate) % 4
	return p
}

// Apply transforms a direction by the orientation.
func (o Orientation) Apply(d Direction) Direction {
	if o.mirror {
		d = d.FlipVert()
	}
	switch o.rotate {
	case 1:
		return d.RotateCW()
	case 2:
		return d.Opp()
	case 3:
		return d.RotateCCW()
	default:
		return d
	}
}

// ApplySize transforms a size by the orientation, swapping width and
// height for odd rotations.
func (o Orientation) ApplySize(s Size) Size {
	if o.rotate%2 == 0 {
		return s
	}
	return Size{Width: s.Height, Height: s.Width}
}

// TransformInSize maps a cell offset within an unrotated rectangle of the
// given size onto the corresponding offset within the oriented rectangle.
func (o Orientation) TransformInSize(d Delta, s Size) Delta {
	x := d.X
	y := d.Y
	if o.mirror {
		y = s.Height - y - 1
	}
	switch o.rotate {
	case 1:
		x, y = s.Height-y-1, x
	case 2:
		x, y = s.Width-x-1, s.Height-y-1
	case 3:
		x, y = y, s.Width-x-1
	}
	return Delta{X: x, Y: y}
}

// String returns the serialized form, "f0" through "t3".
func (o Orientation) String() string {
	m := byte('f')
	if o.mirror {
		m = 't'
	}
	return string([]byte{m, '0' + o.rotate})
}

// ParseOrientation parses the serialized form produced by String.
func ParseOrientation(s string) (Orientation, error) {
	if len(s) != 2 || (s[0] != 'f' && s[0] != 't') || s[1] < '0' || s[1] > '3' {
		return Orientation{}, errors.Errorf("geom: invalid orientation %q", s)
	}
	return Orientation{rotate: s[1] - '0', mirror: s[0] == 't'}, nil
}
